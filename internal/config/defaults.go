package config

// DefaultConfig returns a Config with defaults populated.
//
// Policy philosophy:
//   - Deny lists cover credentials and destructive commands outright.
//   - Allow lists are narrow; anything unlisted resolves to Ask, so the
//     human stays in the loop for everything unconfigured.
func DefaultConfig() *Config {
	return &Config{
		Ruleset: Ruleset{
			Edit: CategoryRules{
				Deny: []string{
					"**/.ssh/**",
					"**/.aws/**",
					"**/.gnupg/**",
					"**/*.pem",
					"**/*.key",
					"**/.env",
					"**/.env.*",
				},
			},
			Create: CategoryRules{
				Deny: []string{
					"**/.ssh/**",
					"**/.aws/**",
					"**/.gnupg/**",
				},
			},
			Bash: CategoryRules{
				Allow: []string{
					"ls *",
					"cat *",
					"git status",
					"git diff*",
					"git log*",
					"go {build,vet,test}*",
				},
				Deny: []string{
					"rm -rf *",
					"sudo *",
					"curl *",
					"wget *",
				},
			},
			Read: CategoryRules{
				Deny: []string{
					"**/.ssh/**",
					"**/.aws/**",
					"**/*.pem",
					"**/*.key",
				},
			},
			Fetch: CategoryRules{
				Allow: []string{
					"docs.*",
					"*.golang.org",
					"pkg.go.dev",
				},
			},
		},
		Confirm: ConfirmConfig{
			Timeout: "30s",
		},
	}
}

// defaultConfigTemplate is the commented starter file written on first
// run. It mirrors DefaultConfig; keep the two in sync.
const defaultConfigTemplate = `# tend configuration
#
# Ruleset entries use glob matching (*, **, brace groups, character
# classes). Deny beats allow. A category with no rules always asks.

ruleset:
  edit:
    deny:
      - "**/.ssh/**"
      - "**/.aws/**"
      - "**/.gnupg/**"
      - "**/*.pem"
      - "**/*.key"
      - "**/.env"
      - "**/.env.*"
  create:
    deny:
      - "**/.ssh/**"
      - "**/.aws/**"
      - "**/.gnupg/**"
  bash:
    allow:
      - "ls *"
      - "cat *"
      - "git status"
      - "git diff*"
      - "git log*"
      - "go {build,vet,test}*"
    deny:
      - "rm -rf *"
      - "sudo *"
      - "curl *"
      - "wget *"
  read:
    deny:
      - "**/.ssh/**"
      - "**/.aws/**"
      - "**/*.pem"
      - "**/*.key"
  fetch:
    allow:
      - "docs.*"
      - "*.golang.org"
      - "pkg.go.dev"

# Categories eligible for automatic handling. Empty means all.
# toolset: [edit, create, bash]

# Directories whose direct children skip the directory-trust prompt.
# trust_roots:
#   - ~/src

# Extra pattern file directories (in addition to the patterns/ dir next
# to this file).
# pattern_dirs:
#   - ~/work/tend-patterns

confirm:
  timeout: 30s

# notify:
#   desktop: true

# log:
#   level: info
#   audit: ~/.local/state/tend/audit.log
`
