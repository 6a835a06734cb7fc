package config

import (
	"reflect"
	"testing"
)

func TestMerge_NilProject(t *testing.T) {
	global := DefaultConfig()
	if got := Merge(global, nil); got != global {
		t.Error("Merge(global, nil) should return global unchanged")
	}
}

func TestMerge_Additive(t *testing.T) {
	global := &Config{
		Ruleset: Ruleset{
			Bash: CategoryRules{
				Allow: []string{"git status"},
				Deny:  []string{"sudo *"},
			},
		},
		Toolset:    []string{"bash"},
		TrustRoots: []string{"/home/user/src"},
	}
	project := &ProjectConfig{
		Ruleset: Ruleset{
			Bash: CategoryRules{
				Allow: []string{"make *", "git status"}, // one duplicate
			},
			Edit: CategoryRules{
				Deny: []string{"go.sum"},
			},
		},
		Toolset: []string{"bash", "edit"},
	}

	got := Merge(global, project)

	wantAllow := []string{"git status", "make *"}
	if !reflect.DeepEqual(got.Ruleset.Bash.Allow, wantAllow) {
		t.Errorf("Bash.Allow = %v, want %v", got.Ruleset.Bash.Allow, wantAllow)
	}
	if !reflect.DeepEqual(got.Ruleset.Bash.Deny, []string{"sudo *"}) {
		t.Errorf("Bash.Deny = %v", got.Ruleset.Bash.Deny)
	}
	if !reflect.DeepEqual(got.Ruleset.Edit.Deny, []string{"go.sum"}) {
		t.Errorf("Edit.Deny = %v", got.Ruleset.Edit.Deny)
	}
	if !reflect.DeepEqual(got.Toolset, []string{"bash", "edit"}) {
		t.Errorf("Toolset = %v", got.Toolset)
	}
	if !reflect.DeepEqual(got.TrustRoots, []string{"/home/user/src"}) {
		t.Errorf("TrustRoots = %v", got.TrustRoots)
	}

	// Merge never mutates its inputs.
	if len(global.Ruleset.Bash.Allow) != 1 {
		t.Error("Merge mutated the global config")
	}
}

func TestMerge_ProjectCannotRemove(t *testing.T) {
	global := &Config{
		Ruleset: Ruleset{
			Edit: CategoryRules{Deny: []string{"**/.ssh/**"}},
		},
	}
	project := &ProjectConfig{
		Ruleset: Ruleset{
			Edit: CategoryRules{Allow: []string{"**/.ssh/**"}},
		},
	}

	got := Merge(global, project)
	if len(got.Ruleset.Edit.Deny) != 1 {
		t.Error("project overlay dropped a global deny rule")
	}
	// Deny still beats the project's allow at decision time; here we only
	// verify both lists survive the merge.
	if len(got.Ruleset.Edit.Allow) != 1 {
		t.Error("project allow rule lost")
	}
}

func TestMergeStrings(t *testing.T) {
	tests := []struct {
		name            string
		global, project []string
		want            []string
	}{
		{"both empty", nil, nil, nil},
		{"global only", []string{"a"}, nil, []string{"a"}},
		{"project only", nil, []string{"b"}, []string{"b"}},
		{"dedup keeps first order", []string{"a", "b"}, []string{"b", "c", "a"}, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeStrings(tt.global, tt.project)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeStrings(%v, %v) = %v, want %v", tt.global, tt.project, got, tt.want)
			}
		})
	}
}
