package event

import (
	"context"
	"log/slog"

	"github.com/raphaelgruber/cligue-go/internal/video"
)

// detectionPrompt asks the model for the pipe-delimited event format the
// parser understands, with NONE as the nothing-notable sentinel. The model
// is also told that natural language is acceptable; the parser's fallbacks
// handle that path.
const detectionPrompt = `Analyze this video frame and identify any significant events, activities, or objects. Look for:
1. Actions or movements (any physical activity or motion)
2. Objects and their presence (any items, entities, or elements in the scene)
3. Scene changes or transitions (camera movements, location shifts)
4. Activities or events happening (ongoing processes or events)
5. Notable elements in the scene (anything worth mentioning)

Respond in format: EVENT_TYPE|DESCRIPTION|SEVERITY|OBJECTS
If no significant events, respond: NONE

Examples:
- ACTION_EVENT|Entity moving across the scene|medium|entity_1
- OBJECT_EVENT|Object detected in the environment|low|object_1
- INTERACTION_EVENT|Multiple entities interacting|high|entity_1,entity_2
- SCENE_CHANGE|Camera movement or transition|medium|camera
- ACTIVITY_EVENT|Ongoing activity in the scene|medium|entity_1,environment

IMPORTANT: Be specific and descriptive. If you cannot provide structured format, describe what you see in natural language and I will parse it.`

// FrameAnalyzer describes a frame with a vision-language model.
// Satisfied by vlm.Client.
type FrameAnalyzer interface {
	AnalyzeFrame(ctx context.Context, jpeg []byte, prompt string) (string, error)
}

// Detector asks the model to describe frames and parses the replies into
// events.
type Detector struct {
	vlm    FrameAnalyzer
	logger *slog.Logger
}

// NewDetector creates a detector backed by the given frame analyzer.
func NewDetector(analyzer FrameAnalyzer, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{vlm: analyzer, logger: logger}
}

// DetectFrame detects events in a single frame. Model failures degrade to
// zero events; the pipeline continues with the next frame.
func (d *Detector) DetectFrame(ctx context.Context, frame video.Frame) []Event {
	response, err := d.vlm.AnalyzeFrame(ctx, frame.JPEG, detectionPrompt)
	if err != nil {
		d.logger.Warn("frame analysis failed, skipping frame",
			"frame_index", frame.Index,
			"timestamp", frame.Timestamp,
			"error", err,
		)
		return nil
	}
	return Parse(response, frame.Timestamp, frame.Index)
}
