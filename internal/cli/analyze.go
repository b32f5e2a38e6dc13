package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/cligue-go/internal/session"
	"github.com/spf13/cobra"
)

var (
	analyzePlain bool
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video>",
	Short: "Analyze a video and print its summary",
	Long: `Analyze a video file: sample frames, detect events with the vision model,
and print the aggregated summary.

Examples:
  cligue analyze clip.mp4
  cligue analyze clip.mp4 --json > analysis.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzePlain, "plain", false, "disable the progress UI")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the summary as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sess, err := analyzeVideo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sess.Summary)
	}

	fmt.Println(renderSummary(sess, defaultTheme))
	return nil
}

// analyzeVideo runs the pipeline with a progress display and returns the
// finished session.
func analyzeVideo(ctx context.Context, path string) (*session.Session, error) {
	analyzer, client, err := buildAnalyzer(ctx)
	if err != nil {
		return nil, err
	}

	if !client.Available(ctx) {
		return nil, fmt.Errorf("model %q is not available; check that the backend is running", client.Model())
	}

	if analyzePlain || analyzeJSON {
		return analyzer.Analyze(ctx, path, func(p session.Progress) {
			logger.Info("progress", "frames", p.FramesDone, "total", p.FramesTotal, "events", p.EventsFound)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newAnalyzeModel(path, cancel))

	go func() {
		sess, err := analyzer.Analyze(ctx, path, func(p session.Progress) {
			program.Send(progressMsg(p))
		})
		program.Send(analysisDoneMsg{sess: sess, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI: %w", err)
	}

	m := final.(analyzeModel)
	if m.quitting {
		return nil, fmt.Errorf("analysis aborted")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.sess, nil
}
