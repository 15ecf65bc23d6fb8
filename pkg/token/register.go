package token

import "sync"

var (
	registryMu sync.RWMutex

	// nextTokenID tracks the next available dynamic token ID.
	// Dynamic tokens start after maxBuiltin (999).
	nextTokenID = maxBuiltin

	// dynamicTokens maps registered dynamic tokens to their tags.
	dynamicTokens = make(map[TokenType]string)

	// dynamicTags maps registered tags to their token types.
	dynamicTags = make(map[string]TokenType)
)

// Register registers a new dynamic token tag and returns its type.
// Tokenizers other than pkg/lexer use this for tags the lint engine has no
// builtin for (e.g. "HERECOMMENT"). Registering the same tag twice returns the
// same type. Builtin tags resolve to their builtin type.
func Register(tag string) TokenType {
	if t, ok := tagTypes[tag]; ok {
		return t
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if t, ok := dynamicTags[tag]; ok {
		return t
	}
	nextTokenID++
	t := nextTokenID
	dynamicTokens[t] = tag
	dynamicTags[tag] = t
	return t
}

// getDynamicName returns the tag of a dynamic token.
func getDynamicName(t TokenType) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamic returns the token type for a registered dynamic tag.
// Returns ILLEGAL and false if the tag is not registered.
func LookupDynamic(tag string) (TokenType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if t, ok := dynamicTags[tag]; ok {
		return t, true
	}
	return ILLEGAL, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
