package main

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/parley/parley/internal/agent"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(loop *agent.Loop) *cli.App {
	return &cli.App{
		Name:    "parley",
		Usage:   "Persistent tool-calling chat threads",
		Version: Version,
		Commands: []*cli.Command{
			chatCmd(loop),
			askCmd(loop),
			threadsCmd(loop),
		},
	}
}

// newThreadID mints a ULID for conversations started without an explicit id.
func newThreadID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", fmt.Errorf("generating thread id: %w", err)
	}
	return id.String(), nil
}

// chatCmd runs an interactive REPL on one thread.
func chatCmd(loop *agent.Loop) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat on a thread (Enter to send, Ctrl+D to exit)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "thread", Aliases: []string{"t"}, Usage: "Thread id (resumes an existing thread; default: new thread)"},
		},
		Action: func(c *cli.Context) error {
			threadID := c.String("thread")
			if threadID == "" {
				id, err := newThreadID()
				if err != nil {
					return err
				}
				threadID = id
			}
			fmt.Printf("Thread %s — %s\n\n", threadID, loop.GetTitle(c.Context, threadID))

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("You: ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				answer, err := loop.SubmitTurn(c.Context, threadID, text)
				if err != nil {
					fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
					continue
				}
				fmt.Printf("Parley: %s\n\n", answer)
			}
		},
	}
}

// askCmd submits a single message and prints the answer.
func askCmd(loop *agent.Loop) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Submit one message and print the answer",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "thread", Aliases: []string{"t"}, Usage: "Thread id (default: new thread)"},
		},
		Action: func(c *cli.Context) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				return fmt.Errorf("message is required")
			}
			threadID := c.String("thread")
			if threadID == "" {
				id, err := newThreadID()
				if err != nil {
					return err
				}
				threadID = id
				fmt.Fprintf(os.Stderr, "thread: %s\n", threadID)
			}
			answer, err := loop.SubmitTurn(c.Context, threadID, text)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}
}

// threadsCmd lists stored threads with their cached titles.
func threadsCmd(loop *agent.Loop) *cli.Command {
	return &cli.Command{
		Name:  "threads",
		Usage: "List stored threads and their titles",
		Action: func(c *cli.Context) error {
			ids, err := loop.ListThreads(c.Context)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Printf("%s\t%s\n", id, loop.GetTitle(c.Context, id))
			}
			return nil
		},
	}
}
