package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <video>",
	Short: "Analyze a video and chat about it",
	Long: `Analyze a video, then start an interactive conversation grounded in the
detected events.

Commands inside the chat:
  /reset   forget the conversation (the analysis stays)
  /quit    exit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := analyzeVideo(ctx, args[0])
	if err != nil {
		return err
	}

	theme := defaultTheme
	fmt.Println(renderSummary(sess, theme))
	fmt.Println(theme.hintStyle().Render("Ask about the video. /reset clears the conversation, /quit exits."))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(theme.accentStyle().Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case input == "/quit", input == "/exit":
			return nil
		case input == "/reset":
			sess.Agent.Reset()
			fmt.Println(theme.hintStyle().Render("conversation cleared"))
			continue
		}

		reply := sess.Agent.Chat(ctx, input)
		fmt.Printf("%s %s\n\n", theme.headerStyle().Render("assistant>"), reply)
	}
}
