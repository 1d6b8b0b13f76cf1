package webhook

import "github.com/stretchr/testify/mock"

// MatchHeaders creates a custom matcher for publish header maps in mocks
func MatchHeaders(matcher func(map[string]string) bool) interface{} {
	return mock.MatchedBy(matcher)
}
