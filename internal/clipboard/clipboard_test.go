package clipboard

import "testing"

func TestParseDestination(t *testing.T) {
	cases := map[string]Destination{
		"system":      System,
		"primary":     Primary,
		"pipe":        Pipe,
		"nonsense":    System,
		"":            System,
	}
	for in, want := range cases {
		if got := ParseDestination(in); got != want {
			t.Errorf("ParseDestination(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCopyPipeRequiresCommand(t *testing.T) {
	c := &Copier{}
	if err := c.Copy("hello", Pipe); err == nil {
		t.Fatal("expected error with no pipe command configured")
	}
}

func TestCopyPipeRunsCommand(t *testing.T) {
	c := &Copier{PipeCommand: []string{"cat"}}
	if err := c.Copy("hello", Pipe); err != nil {
		t.Fatalf("Copy via pipe: %v", err)
	}
}

func TestDestinationString(t *testing.T) {
	if System.String() != "system" || Primary.String() != "primary" || Pipe.String() != "pipe" {
		t.Fatal("Destination.String() mismatch")
	}
}
