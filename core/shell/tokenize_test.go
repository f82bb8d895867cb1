package shell

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"ls -l /tmp", []string{"ls", "-l", "/tmp"}},
		{"", nil},
		{"   ", nil},
		{" \t\r\n\a", nil},
		{"  ls   -l  ", []string{"ls", "-l"}},
		{"a\tb\rc\ad", []string{"a", "b", "c", "d"}},
		{"mkdir\t \t/tmp/dir", []string{"mkdir", "/tmp/dir"}},
		{"exit", []string{"exit"}},
		{"\auname -a\a", []string{"uname", "-a"}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.line), func(t *testing.T) {
			got := SplitLine(tc.line)

			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitLineGrowth(t *testing.T) {
	// More tokens than two buffer extensions hold.
	count := 2*TokenBufferSize + 10
	var sb strings.Builder
	want := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tok := fmt.Sprintf("arg%d", i)
		want = append(want, tok)
		sb.WriteString(tok)
		sb.WriteByte(' ')
	}

	assert.Equal(t, want, SplitLine(sb.String()))
}
