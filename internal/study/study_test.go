package study

import "testing"

func TestInstructionForDistinctAndNonEmpty(t *testing.T) {
	seen := map[string]Level{}
	for _, opt := range Levels() {
		got := InstructionFor(opt.Value)
		if got == "" {
			t.Errorf("InstructionFor(%s) is empty", opt.Value)
		}
		if prev, dup := seen[got]; dup {
			t.Errorf("InstructionFor(%s) duplicates %s", opt.Value, prev)
		}
		seen[got] = opt.Value
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct instructions, got %d", len(seen))
	}
}

func TestInstructionForUnknownIsGeneral(t *testing.T) {
	general := InstructionFor(LevelGeneral)
	for _, l := range []Level{"", "PHD", "class_6"} {
		if got := InstructionFor(l); got != general {
			t.Errorf("InstructionFor(%q) = %q, want general", l, got)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelGeneral, false},
		{"GENERAL", LevelGeneral, false},
		{"class_10", LevelClass10, false},
		{" neet_jee ", LevelNEETJEE, false},
		{"CLASS_12", LevelGeneral, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	physics, ok := SubjectByID("physics")
	if !ok {
		t.Fatal("physics subject missing")
	}
	general, _ := SubjectByID("")

	tests := []struct {
		name    string
		subject Subject
		want    string
	}{
		{"general subject", general, "What is inertia?"},
		{"no subject", Subject{}, "What is inertia?"},
		{"physics", physics, "Subject: Physics. Question: What is inertia?"},
	}
	for _, tt := range tests {
		if got := BuildPrompt(tt.subject, "What is inertia?"); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSubjectByID(t *testing.T) {
	s, ok := SubjectByID("MATHS")
	if !ok || s.Name != "Mathematics" {
		t.Errorf("SubjectByID(MATHS) = %+v, %v", s, ok)
	}
	if _, ok := SubjectByID("history"); ok {
		t.Error("expected unknown subject to be rejected")
	}
	if len(Subjects()) != 5 {
		t.Errorf("expected 5 subjects, got %d", len(Subjects()))
	}
}
