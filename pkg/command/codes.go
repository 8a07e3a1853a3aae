package command

// Indicator and housekeeping codes the channel sends on its own.
const (
	CodeGoodReadBuzzer = "B"
	CodeGoodReadLED    = "L"
	CodeWorkVibration  = "V"
	CodeBadReadBuzzer  = "E"
	CodeBadReadLED     = "N"

	// CodeSaveSettings persists the scanner's settings to non-volatile memory.
	CodeSaveSettings = "Z2"
)

// FeedbackDefaults are the global feedback switches used when a Spec leaves
// a switch at FeedbackDefault.
type FeedbackDefaults struct {
	LED       bool
	Buzzer    bool
	Vibration bool
}

// AllFeedback enables every indicator.
var AllFeedback = FeedbackDefaults{LED: true, Buzzer: true, Vibration: true}

// feedbackSpecs returns the indicator commands to send after spec completes.
func feedbackSpecs(spec Spec, def FeedbackDefaults, acked bool) []Spec {
	if !spec.SendFeedback {
		return nil
	}
	buzzer := spec.Buzzer.Resolve(def.Buzzer)
	led := spec.LED.Resolve(def.LED)
	vibration := spec.Vibration.Resolve(def.Vibration)

	var out []Spec
	if acked {
		if buzzer {
			out = append(out, Raw(CodeGoodReadBuzzer))
		}
		if led {
			out = append(out, Raw(CodeGoodReadLED))
		}
	}
	if vibration {
		out = append(out, Raw(CodeWorkVibration))
	}
	if !acked {
		if buzzer {
			out = append(out, Raw(CodeBadReadBuzzer))
		}
		if led {
			out = append(out, Raw(CodeBadReadLED))
		}
	}
	return out
}
