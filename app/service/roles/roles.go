package roles

import (
	_ "embed"
)

//go:embed prompts/integrator.txt
var integratorPrompt string

//go:embed prompts/hybrid.txt
var hybridPrompt string

//go:embed prompts/prober.txt
var proberPrompt string

//go:embed prompts/minimal.txt
var minimalPrompt string

// DefaultRole is the minimal-intervention role every unknown or empty role
// name resolves to.
const DefaultRole = "無介入AI"

var prompts = map[string]string{
	"整合型AI":    integratorPrompt,
	"混合型AI":    hybridPrompt,
	"探究型AI":    proberPrompt,
	DefaultRole: minimalPrompt,
}

// Resolve returns the system prompt registered for the given role name,
// falling back to the default role's prompt when the name is not registered.
func Resolve(name string) string {
	if prompt, ok := prompts[name]; ok {
		return prompt
	}

	return prompts[DefaultRole]
}

// IsRegistered reports whether name is one of the configured experimental
// roles.
func IsRegistered(name string) bool {
	_, ok := prompts[name]
	return ok
}
