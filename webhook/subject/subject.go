package subject

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

/* Subject derivation: provider + payload shape -> hierarchical routing
 * subject "<provider>.<scope...>.<event>"
 * Every payload-contributed segment is sanitized so payload content can
 * never inject extra dot-delimited routing tokens
 */

const (
	// Placeholder stands in for any scope segment the payload does not
	// carry, keeping the token layout stable for pattern subscribers
	Placeholder = "?"

	// dotMarker substitutes literal dots inside a segment
	dotMarker = "~"
)

// Sanitize makes a payload value safe to use as a single subject token.
// Literal dots are substituted and an empty value degrades to the
// explicit placeholder rather than being omitted.
func Sanitize(segment string) string {
	if segment == "" {
		return Placeholder
	}
	return strings.ReplaceAll(segment, ".", dotMarker)
}

// GitHubPayload carries the fields subject derivation reads from a
// GitHub webhook body
type GitHubPayload struct {
	Action     string `json:"action"`
	Repository *struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	Organization *struct {
		Login string `json:"login"`
	} `json:"organization"`
}

// ParseGitHub decodes a GitHub webhook body.
// Callers must have verified the signature against these same bytes first.
func ParseGitHub(body []byte) (GitHubPayload, error) {
	var p GitHubPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return GitHubPayload{}, fmt.Errorf("unmarshaling github payload: %w", err)
	}
	return p, nil
}

/* GitHub composes "github.<org>.<repo>.<event>", always exactly four
 * tokens. The org comes from the repository owner, falling back to the
 * organization login for org-level hooks; missing fields degrade to the
 * placeholder. Event case is preserved as received.
 */
func GitHub(p GitHubPayload, event string) string {
	org := ""
	repo := ""
	if p.Repository != nil {
		org = p.Repository.Owner.Login
		repo = p.Repository.Name
	} else if p.Organization != nil {
		org = p.Organization.Login
	}
	return strings.Join([]string{"github", Sanitize(org), Sanitize(repo), Sanitize(event)}, ".")
}

// GitLabPayload carries the fields subject derivation reads from a
// GitLab webhook body. GitLab event shapes vary widely, so every field
// is optional.
type GitLabPayload struct {
	ObjectKind        string `json:"object_kind"`
	EventName         string `json:"event_name"`
	PathWithNamespace string `json:"path_with_namespace"`
	Project           *struct {
		PathWithNamespace string `json:"path_with_namespace"`
	} `json:"project"`
	Group *struct {
		FullPath  string `json:"full_path"`
		Path      string `json:"path"`
		GroupPath string `json:"group_path"`
	} `json:"group"`
	ObjectAttributes *struct {
		URL       string `json:"url"`
		ProjectID int64  `json:"project_id"`
	} `json:"object_attributes"`
}

// ParseGitLab decodes a GitLab webhook body.
// Callers must have verified the token before parsing.
func ParseGitLab(body []byte) (GitLabPayload, error) {
	var p GitLabPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return GitLabPayload{}, fmt.Errorf("unmarshaling gitlab payload: %w", err)
	}
	return p, nil
}

// scope is the resolved tenant portion of a GitLab subject
type scope struct {
	namespace []string
	project   string
}

/* GitLab's payload shapes are handled as an ordered chain of pure
 * extraction strategies; the first one that matches wins. Adding
 * support for a new shape means appending a strategy, not deepening
 * conditionals.
 */
var gitlabScopeStrategies = []func(GitLabPayload) (scope, bool){
	projectScope,
	groupScope,
	objectURLScope,
}

/* GitLab composes "gitlab.<namespace...>.<project>.<event>". Each
 * namespace path segment becomes its own token; unknown segments
 * degrade to the placeholder. The event is object_kind or event_name,
 * lower-cased, defaulting to "unknown".
 */
func GitLab(p GitLabPayload) string {
	sc := scope{namespace: []string{Placeholder}, project: Placeholder}
	for _, strategy := range gitlabScopeStrategies {
		if resolved, ok := strategy(p); ok {
			sc = resolved
			break
		}
	}

	event := GitLabEvent(p)

	tokens := make([]string, 0, len(sc.namespace)+3)
	tokens = append(tokens, "gitlab")
	for _, seg := range sc.namespace {
		tokens = append(tokens, Sanitize(seg))
	}
	tokens = append(tokens, Sanitize(sc.project), Sanitize(event))
	return strings.Join(tokens, ".")
}

// GitLabEvent resolves the event name for a GitLab payload:
// object_kind, then event_name, lower-cased, defaulting to "unknown"
func GitLabEvent(p GitLabPayload) string {
	event := p.ObjectKind
	if event == "" {
		event = p.EventName
	}
	if event == "" {
		event = "unknown"
	}
	return strings.ToLower(event)
}

// projectScope resolves project-shaped payloads via path_with_namespace
func projectScope(p GitLabPayload) (scope, bool) {
	path := p.PathWithNamespace
	if path == "" && p.Project != nil {
		path = p.Project.PathWithNamespace
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return scope{}, false
	}
	if len(segments) == 1 {
		return scope{namespace: []string{Placeholder}, project: segments[0]}, true
	}
	return scope{namespace: segments[:len(segments)-1], project: segments[len(segments)-1]}, true
}

// groupScope resolves group-shaped payloads; there is no project
func groupScope(p GitLabPayload) (scope, bool) {
	if p.Group == nil {
		return scope{}, false
	}
	path := p.Group.FullPath
	if path == "" {
		path = p.Group.Path
	}
	if path == "" {
		path = p.Group.GroupPath
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return scope{}, false
	}
	return scope{namespace: segments, project: Placeholder}, true
}

/* objectURLScope falls back to the object_attributes URL. The path
 * after GitLab's "/-/" resource-action marker is discarded; what
 * remains is the namespace/project path. Only a payload that also
 * carries a project_id is trusted to name a project as its last
 * segment.
 */
func objectURLScope(p GitLabPayload) (scope, bool) {
	if p.ObjectAttributes == nil || p.ObjectAttributes.URL == "" {
		return scope{}, false
	}
	u, err := url.Parse(p.ObjectAttributes.URL)
	if err != nil {
		return scope{}, false
	}
	path := u.Path
	if idx := strings.Index(path, "/-/"); idx >= 0 {
		path = path[:idx]
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return scope{}, false
	}
	if p.ObjectAttributes.ProjectID > 0 && len(segments) >= 2 {
		return scope{namespace: segments[:len(segments)-1], project: segments[len(segments)-1]}, true
	}
	return scope{namespace: segments, project: Placeholder}, true
}

// splitPath splits a slash-delimited path, dropping empty segments
func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
