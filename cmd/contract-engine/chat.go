// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/contract-engine/internal/chat"
	"github.com/pdiddy/contract-engine/internal/language"
)

var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Ask questions about a contract",
	Long: `Chat starts a conversation about a contract. Each answer is based on the
document text; questions the contract does not answer get a fixed "not
available" reply. Answers are in the document's language unless --lang is set.

Type /reset to clear the conversation and /quit (or end of input) to leave.
Use --question for a single question without the interactive prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	doc, err := loadDocument(ctx, args[0])
	if err != nil {
		return err
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	backend, err := newCompleter(apiKey, model)
	if err != nil {
		return err
	}

	lang := doc.Language
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		lang = l
	}
	session := chat.NewSession(backend, doc.Text, language.NewNames(cfg.Languages).Name(lang))
	session.MaxTokens = cfg.AI.MaxTokens

	if q, _ := cmd.Flags().GetString("question"); q != "" {
		reply, err := session.Ask(ctx, q)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, reply)
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Fprintf(os.Stdout, "Chatting about %s (%s). /reset clears history, /quit exits.\n", args[0], session.Language)
	}
	return chatLoop(ctx, session, os.Stdin, os.Stdout, interactive)
}

// chatLoop reads one question per line until EOF or /quit. Backend errors
// are reported inline and the conversation continues.
func chatLoop(ctx context.Context, session *chat.Session, in io.Reader, out io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			session.Reset()
			fmt.Fprintln(out, "History cleared.")
			continue
		}

		reply, err := session.Ask(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Sorry, an error occurred: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n\n", reply)
	}
	return scanner.Err()
}

func init() {
	chatCmd.Flags().String("question", "", "ask a single question and exit")
	chatCmd.Flags().String("lang", "", "reply language code (default: detected from the document)")
	chatCmd.Flags().String("model", "", "AI model identifier (overrides ai.model)")
	chatCmd.Flags().String("api-key", "", "API key for the AI provider (default: from .secrets/ or .env)")

	rootCmd.AddCommand(chatCmd)
}
