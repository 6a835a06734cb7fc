package config

// Merge overlays a per-project configuration onto the global one,
// returning the effective configuration for a session. Project
// collections ADD to global (they never replace), deduplicated by value.
// A nil project returns the global config unchanged.
func Merge(global *Config, project *ProjectConfig) *Config {
	if project == nil {
		return global
	}

	merged := *global
	merged.Ruleset = Ruleset{
		Edit:   mergeCategory(global.Ruleset.Edit, project.Ruleset.Edit),
		Create: mergeCategory(global.Ruleset.Create, project.Ruleset.Create),
		Bash:   mergeCategory(global.Ruleset.Bash, project.Ruleset.Bash),
		Read:   mergeCategory(global.Ruleset.Read, project.Ruleset.Read),
		Fetch:  mergeCategory(global.Ruleset.Fetch, project.Ruleset.Fetch),
	}
	merged.Toolset = mergeStrings(global.Toolset, project.Toolset)
	merged.TrustRoots = mergeStrings(global.TrustRoots, project.TrustRoots)
	merged.PatternDirs = mergeStrings(global.PatternDirs, project.PatternDirs)
	return &merged
}

func mergeCategory(global, project CategoryRules) CategoryRules {
	return CategoryRules{
		Allow: mergeStrings(global.Allow, project.Allow),
		Deny:  mergeStrings(global.Deny, project.Deny),
	}
}

// mergeStrings combines two lists, keeping first-seen order and
// dropping duplicates.
func mergeStrings(global, project []string) []string {
	if len(global) == 0 && len(project) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(global)+len(project))
	result := make([]string, 0, len(global)+len(project))

	for _, s := range global {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range project {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
