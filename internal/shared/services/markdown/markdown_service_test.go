package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordToHTML(t *testing.T) {
	svc := NewMarkdownService()

	tests := []struct {
		name     string
		content  string
		contains []string
		excludes []string
	}{
		{
			name:     "bold and strike",
			content:  "**urgent** ~~old~~",
			contains: []string{"<strong>urgent</strong>", "<del>old</del>"},
		},
		{
			name:     "user mention",
			content:  "thanks <@123456>",
			contains: []string{`<span class="mention user">@123456</span>`},
		},
		{
			name:     "role mention",
			content:  "ping <@&987>",
			contains: []string{`@role:987`},
		},
		{
			name:     "spoiler",
			content:  "the code is ||hunter2||",
			contains: []string{`<span class="spoiler">hunter2</span>`},
		},
		{
			name:     "custom emoji",
			content:  "nice <:pepe:112233>",
			contains: []string{":pepe:"},
			excludes: []string{"112233"},
		},
		{
			name:     "script stripped",
			content:  "hi <script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.DiscordToHTML(tt.content)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
