package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToolCallParseArguments(t *testing.T) {
	t.Parallel()

	args, err := ToolCall{Arguments: `{"guests": 4, "rating": 4.5, "restaurant": null}`}.ParseArguments()
	require.NoError(t, err)
	require.Equal(t, json.Number("4"), args["guests"])
	require.Equal(t, json.Number("4.5"), args["rating"])
	require.Contains(t, args, "restaurant")
	require.Nil(t, args["restaurant"])

	for _, blank := range []string{"", "  ", "null"} {
		args, err := ToolCall{Arguments: blank}.ParseArguments()
		require.NoError(t, err, blank)
		require.NotNil(t, args, blank)
		require.Empty(t, args, blank)
	}

	for _, bad := range []string{`{"guests": 4`, `[1,2]`, `"text"`} {
		_, err := ToolCall{Arguments: bad}.ParseArguments()
		require.Error(t, err, bad)
	}
}

func TestTextResult(t *testing.T) {
	t.Parallel()

	r := TextResult("check_availability", "ok", false)
	require.Equal(t, "ok", r.FirstText())
	require.False(t, r.IsError)
	require.Empty(t, ToolResult{}.FirstText())
}
