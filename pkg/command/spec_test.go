package command

import "testing"

func TestEncodeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Z", "Z"},
		{"Z2", "Z2"},
		{"DDN", "[DDN"},
		{"BCDE", "]BCDE"},
		{"ABCDE", "ABCDE"},
	}

	for _, tt := range tests {
		if got := EncodeToken(tt.in); got != tt.want {
			t.Errorf("EncodeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpecEncode(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"bare code", New("Z2"), "Z2"},
		{"three letter code", New("DDN"), "[DDN"},
		{"parameters in order", New("ABCD", "XYZ", "1", "Q0"), "]ABCD[XYZ1Q0"},
		{"raw code", Raw("[DDN"), "[DDN"},
		{"raw with parameters", Raw("X", "abc"), "Xabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.spec.Encode()); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewAndRawFeedbackDefaults(t *testing.T) {
	if !New("A").SendFeedback {
		t.Error("New().SendFeedback = false, want true")
	}
	if Raw("A").SendFeedback {
		t.Error("Raw().SendFeedback = true, want false")
	}
}

func TestFeedbackResolve(t *testing.T) {
	tests := []struct {
		f    Feedback
		def  bool
		want bool
	}{
		{FeedbackDefault, true, true},
		{FeedbackDefault, false, false},
		{FeedbackOn, false, true},
		{FeedbackOff, true, false},
	}

	for _, tt := range tests {
		if got := tt.f.Resolve(tt.def); got != tt.want {
			t.Errorf("Feedback(%d).Resolve(%v) = %v, want %v", tt.f, tt.def, got, tt.want)
		}
	}
}

func TestFeedbackSpecs(t *testing.T) {
	quietLED := New("A")
	quietLED.LED = FeedbackOff

	buzzerOnly := New("A")
	buzzerOnly.Buzzer = FeedbackOn

	tests := []struct {
		name  string
		spec  Spec
		def   FeedbackDefaults
		acked bool
		want  []string
	}{
		{"ack", New("A"), AllFeedback, true, []string{"B", "L", "V"}},
		{"nak", New("A"), AllFeedback, false, []string{"V", "E", "N"}},
		{"no feedback", Raw("A"), AllFeedback, true, nil},
		{"led off", quietLED, AllFeedback, true, []string{"B", "V"}},
		{"defaults off", New("A"), FeedbackDefaults{}, true, nil},
		{"override on", buzzerOnly, FeedbackDefaults{}, false, []string{"E"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feedbackSpecs(tt.spec, tt.def, tt.acked)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d commands, want %v", len(got), tt.want)
			}
			for i, s := range got {
				if s.Code != tt.want[i] {
					t.Errorf("command %d = %q, want %q", i, s.Code, tt.want[i])
				}
				if s.SendFeedback {
					t.Errorf("feedback command %q requests feedback", s.Code)
				}
			}
		})
	}
}
