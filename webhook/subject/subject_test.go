package subject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Run("empty becomes placeholder", func(t *testing.T) {
		assert.Equal(t, Placeholder, Sanitize(""))
	})

	t.Run("dots are substituted", func(t *testing.T) {
		assert.Equal(t, "my~repo~js", Sanitize("my.repo.js"))
	})

	t.Run("plain value untouched", func(t *testing.T) {
		assert.Equal(t, "widgets", Sanitize("widgets"))
	})
}

func TestGitHub(t *testing.T) {
	t.Run("success - repository payload", func(t *testing.T) {
		p, err := ParseGitHub([]byte(`{"repository":{"name":"widgets","owner":{"login":"acme"}}}`))
		require.NoError(t, err)
		assert.Equal(t, "github.acme.widgets.push", GitHub(p, "push"))
	})

	t.Run("organization fallback without repository", func(t *testing.T) {
		p, err := ParseGitHub([]byte(`{"organization":{"login":"acme"}}`))
		require.NoError(t, err)
		assert.Equal(t, "github.acme.?.org_block", GitHub(p, "org_block"))
	})

	t.Run("missing fields degrade to placeholders", func(t *testing.T) {
		p, err := ParseGitHub([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, "github.?.?.push", GitHub(p, "push"))
	})

	t.Run("always exactly four tokens", func(t *testing.T) {
		payloads := []string{
			`{}`,
			`{"repository":{"name":"widgets","owner":{"login":"acme"}}}`,
			`{"repository":{"name":"my.site.io","owner":{"login":"a.b"}}}`,
			`{"organization":{"login":"acme"}}`,
			`{"repository":{"owner":{"login":"acme"}}}`,
		}
		for _, raw := range payloads {
			p, err := ParseGitHub([]byte(raw))
			require.NoError(t, err)
			subj := GitHub(p, "push")
			assert.Len(t, strings.Split(subj, "."), 4, "payload %s produced %s", raw, subj)
		}
	})

	t.Run("dotted repository name never adds tokens", func(t *testing.T) {
		p, err := ParseGitHub([]byte(`{"repository":{"name":"my.site.io","owner":{"login":"acme"}}}`))
		require.NoError(t, err)
		assert.Equal(t, "github.acme.my~site~io.push", GitHub(p, "push"))
	})

	t.Run("event case preserved as received", func(t *testing.T) {
		p, err := ParseGitHub([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, "github.?.?.Push", GitHub(p, "Push"))
	})

	t.Run("error - invalid json", func(t *testing.T) {
		_, err := ParseGitHub([]byte(`{not json`))
		require.Error(t, err)
	})
}

func TestGitLab(t *testing.T) {
	parse := func(t *testing.T, raw string) GitLabPayload {
		t.Helper()
		p, err := ParseGitLab([]byte(raw))
		require.NoError(t, err)
		return p
	}

	t.Run("project scope - nested project path", func(t *testing.T) {
		p := parse(t, `{"object_kind":"merge_request","project":{"path_with_namespace":"team/proj"}}`)
		assert.Equal(t, "gitlab.team.proj.merge_request", GitLab(p))
	})

	t.Run("project scope - top-level path", func(t *testing.T) {
		p := parse(t, `{"object_kind":"push","path_with_namespace":"acme/widgets"}`)
		assert.Equal(t, "gitlab.acme.widgets.push", GitLab(p))
	})

	t.Run("project scope - multi-level namespace", func(t *testing.T) {
		p := parse(t, `{"object_kind":"push","path_with_namespace":"acme/platform/widgets"}`)
		assert.Equal(t, "gitlab.acme.platform.widgets.push", GitLab(p))
	})

	t.Run("project scope - bare project without namespace", func(t *testing.T) {
		p := parse(t, `{"object_kind":"push","path_with_namespace":"widgets"}`)
		assert.Equal(t, "gitlab.?.widgets.push", GitLab(p))
	})

	t.Run("group scope - full_path without project", func(t *testing.T) {
		p := parse(t, `{"event_name":"group_rename","group":{"full_path":"acme/platform"}}`)
		assert.Equal(t, "gitlab.acme.platform.?.group_rename", GitLab(p))
	})

	t.Run("group scope - path fallback", func(t *testing.T) {
		p := parse(t, `{"event_name":"group_create","group":{"path":"acme"}}`)
		assert.Equal(t, "gitlab.acme.?.group_create", GitLab(p))
	})

	t.Run("object url fallback - project id present", func(t *testing.T) {
		p := parse(t, `{"object_kind":"note","object_attributes":{"url":"https://gitlab.example.com/acme/widgets/-/merge_requests/7#note_42","project_id":31}}`)
		assert.Equal(t, "gitlab.acme.widgets.note", GitLab(p))
	})

	t.Run("object url fallback - no project id keeps whole path as namespace", func(t *testing.T) {
		p := parse(t, `{"object_kind":"note","object_attributes":{"url":"https://gitlab.example.com/acme/widgets/-/issues/3"}}`)
		assert.Equal(t, "gitlab.acme.widgets.?.note", GitLab(p))
	})

	t.Run("project scope wins over group and url", func(t *testing.T) {
		p := parse(t, `{"object_kind":"push","project":{"path_with_namespace":"team/proj"},"group":{"full_path":"other"},"object_attributes":{"url":"https://gitlab.example.com/x/y/-/z","project_id":1}}`)
		assert.Equal(t, "gitlab.team.proj.push", GitLab(p))
	})

	t.Run("total fallback", func(t *testing.T) {
		p := parse(t, `{}`)
		assert.Equal(t, "gitlab.?.?.unknown", GitLab(p))
	})

	t.Run("event name lower-cased", func(t *testing.T) {
		p := parse(t, `{"object_kind":"Merge_Request","project":{"path_with_namespace":"team/proj"}}`)
		assert.Equal(t, "gitlab.team.proj.merge_request", GitLab(p))
	})

	t.Run("event_name used when object_kind absent", func(t *testing.T) {
		p := parse(t, `{"event_name":"repository_update","project":{"path_with_namespace":"team/proj"}}`)
		assert.Equal(t, "gitlab.team.proj.repository_update", GitLab(p))
	})

	t.Run("dotted segments never add tokens", func(t *testing.T) {
		p := parse(t, `{"object_kind":"push","project":{"path_with_namespace":"my.group/my.site.io"}}`)
		assert.Equal(t, "gitlab.my~group.my~site~io.push", GitLab(p))
	})
}

func TestGitLabEvent(t *testing.T) {
	t.Run("object_kind preferred", func(t *testing.T) {
		assert.Equal(t, "push", GitLabEvent(GitLabPayload{ObjectKind: "push", EventName: "other"}))
	})

	t.Run("defaults to unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", GitLabEvent(GitLabPayload{}))
	})
}
