package pattern

// Builtin returns the built-in pattern library for Claude Code style
// coding agents. These cover the stock permission dialogs the agent
// draws in its own UI; operator pattern files extend or replace them.
//
// Responses select the dialog's first ("Yes") numbered option. Whether a
// match is actually answered is decided by the rules engine, never here.
func Builtin() []Definition {
	return []Definition{
		{
			ID:    "claude-edit-file",
			Title: "Edit file",
			Kind:  KindEditFile,
			Template: []Segment{
				{Literal: "Edit file"},
				{Multiline: "diff"},
				{Literal: "Do you want to make this edit to {{ file }}?"},
			},
			Response: Response{Keys: []string{"1"}},
		},
		{
			ID:    "claude-create-file",
			Title: "Create file",
			Kind:  KindCreate,
			Template: []Segment{
				{Literal: "Create file"},
				{Multiline: "content"},
				{Literal: "Do you want to create {{ file }}?"},
			},
			Response: Response{Keys: []string{"1"}},
		},
		{
			ID:    "claude-bash-command",
			Title: "Bash command",
			Kind:  KindBash,
			Template: []Segment{
				{Literal: "Bash({{ command }})"},
				{Literal: "Bash command"},
				{Multiline: "description"},
				{Literal: "Do you want to proceed?"},
			},
			Response: Response{Keys: []string{"1"}},
		},
		{
			ID:    "claude-read-file",
			Title: "Read file",
			Kind:  KindReadFile,
			Template: []Segment{
				{Literal: "Read({{ file }})"},
				{Literal: "Do you want to proceed?"},
			},
			Response: Response{Keys: []string{"1"}},
		},
		{
			ID:    "claude-fetch-content",
			Title: "Fetch content",
			Kind:  KindFetch,
			Template: []Segment{
				{Literal: "Fetch({{ url }})"},
				{Literal: "Do you want to allow this fetch?"},
			},
			Response: Response{Keys: []string{"1"}},
		},
		{
			ID:    "claude-trust-directory",
			Title: "Trust directory",
			Kind:  KindTrust,
			Template: []Segment{
				{Literal: "Do you trust the files in this folder?"},
				{Literal: "{{ directory }}"},
			},
			Response: Response{Keys: []string{"1"}},
		},
		{
			// The idle input prompt footer. Signals the application is
			// ready; always accepted by the rules engine.
			ID:              "claude-ready",
			Title:           "Application ready",
			Kind:            KindReady,
			FallbackTrigger: "? for shortcuts",
			Response:        Response{Action: "notify", Message: "agent is ready for input"},
		},
	}
}

// RegisterBuiltin registers the built-in library into reg.
func RegisterBuiltin(reg *Registry) error {
	for _, def := range Builtin() {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
