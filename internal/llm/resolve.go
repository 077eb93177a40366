package llm

import (
	"fmt"
	"os"
)

// Resolve selects a provider by name, falling back to whichever API key is
// present in the environment when name is empty. A nil-provider error here
// is a configuration condition, not a failure: callers degrade to the
// heuristic extractor.
func Resolve(name, apiKey string) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAI(apiKey)
	case "anthropic":
		return NewAnthropic(apiKey)
	case "":
		if os.Getenv("OPENAI_API_KEY") != "" {
			return NewOpenAI("")
		}
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			return NewAnthropic("")
		}
		return nil, fmt.Errorf("no AI provider configured: set OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}
