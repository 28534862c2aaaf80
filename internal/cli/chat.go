package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat against a running MoveBot API",
		Run:   runChat,
	}

	cmd.Flags().String("api", "", "API base URL (default derived from server.addr in config)")
	cmd.Flags().Duration("timeout", 60*time.Second, "Per-request timeout")

	RootCmd.AddCommand(cmd)
}

type startResponse struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type turnResponse struct {
	Reply string `json:"reply"`
	State string `json:"state"`
}

func runChat(cmd *cobra.Command, _ []string) {
	apiBase, _ := cmd.Flags().GetString("api")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if apiBase == "" {
		cfg, err := loadConfig()
		if err != nil {
			exitErr("load config", err)
		}
		apiBase = baseURLFromAddr(cfg.Server.Addr)
	}
	apiBase = strings.TrimRight(apiBase, "/")
	client := &http.Client{Timeout: timeout}

	start, err := postJSON[startResponse](client, apiBase+"/chats", nil)
	if err != nil {
		exitErr("start chat", err)
	}
	fmt.Println(start.Message)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/quit" || text == "/exit" {
			end, err := postJSON[turnResponse](client, apiBase+"/chats/"+start.ChatID+"/end", nil)
			if err != nil {
				exitErr("end chat", err)
			}
			fmt.Println(end.Reply)
			return
		}

		turn, err := postJSON[turnResponse](client, apiBase+"/chats/"+start.ChatID+"/messages",
			map[string]string{"message": text})
		if err != nil {
			exitErr("send message", err)
		}
		fmt.Println(turn.Reply)
	}
}

func postJSON[T any](client *http.Client, url string, payload any) (T, error) {
	var result T

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return result, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	resp, err := client.Post(url, "application/json", body)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return result, fmt.Errorf("api status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return result, fmt.Errorf("api status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, err
	}
	return result, nil
}

func baseURLFromAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
