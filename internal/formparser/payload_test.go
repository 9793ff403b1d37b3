// internal/formparser/payload_test.go
package formparser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// payloadPage wraps a raw payload literal in a minimal HTML page.
func payloadPage(payload string) []byte {
	return []byte(fmt.Sprintf(`<html><body><script>var FB_PUBLIC_LOAD_DATA_ = %s;</script></body></html>`, payload))
}

func TestQuestionsFromPayload(t *testing.T) {
	logger := zap.NewNop()

	t.Run("absent payload reports not ok", func(t *testing.T) {
		_, ok := questionsFromPayload([]byte(`<html><body>no script here</body></html>`), logger)
		assert.False(t, ok)
	})

	t.Run("unparseable payload reports not ok", func(t *testing.T) {
		_, ok := questionsFromPayload(payloadPage(`[this is not json]`), logger)
		assert.False(t, ok)
	})

	t.Run("maps every known type code", func(t *testing.T) {
		codeKinds := map[int]schemas.QuestionKind{
			0:  schemas.KindShortText,
			1:  schemas.KindParagraph,
			2:  schemas.KindSingleChoice,
			3:  schemas.KindLinearScale,
			4:  schemas.KindMultiChoice,
			5:  schemas.KindDropdown,
			7:  schemas.KindDropdown,
			9:  schemas.KindDate,
			10: schemas.KindTime,
		}
		for code, wantKind := range codeKinds {
			payload := fmt.Sprintf(`[null,[null,[[null,"Q",null,%d,[[111]]]]]]`, code)
			questions, ok := questionsFromPayload(payloadPage(payload), logger)
			require.True(t, ok, "code %d", code)
			require.Len(t, questions, 1, "code %d", code)
			assert.Equal(t, wantKind, questions[0].Kind, "code %d", code)
		}
	})

	t.Run("unknown type codes degrade to short text", func(t *testing.T) {
		questions, ok := questionsFromPayload(payloadPage(`[null,[null,[[null,"Q",null,99,[[111]]]]]]`), logger)
		require.True(t, ok)
		require.Len(t, questions, 1)
		assert.Equal(t, schemas.KindShortText, questions[0].Kind)
	})

	t.Run("linear scale reads bounds and falls back to 1..5", func(t *testing.T) {
		payload := `[null,[null,[
			[null,"Rate us",null,3,[[201,null,0,[2,8]]]],
			[null,"Rate again",null,3,[[202]]]
		]]]`
		questions, ok := questionsFromPayload(payloadPage(payload), logger)
		require.True(t, ok)
		require.Len(t, questions, 2)

		assert.Equal(t, 2, questions[0].ScaleMin)
		assert.Equal(t, 8, questions[0].ScaleMax)
		assert.Equal(t, 1, questions[1].ScaleMin)
		assert.Equal(t, 5, questions[1].ScaleMax)
	})

	t.Run("string entry ids are tolerated", func(t *testing.T) {
		questions, ok := questionsFromPayload(payloadPage(`[null,[null,[[null,"Q",null,0,[["abc123"]]]]]]`), logger)
		require.True(t, ok)
		require.Len(t, questions, 1)
		assert.Equal(t, "entry.abc123", questions[0].FieldKey)
	})

	t.Run("skips items without a label or entry id", func(t *testing.T) {
		payload := `[null,[null,[
			[null,null,null,0,[[301]]],
			[null,"Section header",null,6,[]],
			[null,"Real question",null,0,[[303]]]
		]]]`
		questions, ok := questionsFromPayload(payloadPage(payload), logger)
		require.True(t, ok)
		require.Len(t, questions, 1)
		assert.Equal(t, "Real question", questions[0].Label)
		assert.Equal(t, "entry.303", questions[0].FieldKey)
	})

	t.Run("question ids follow source item position", func(t *testing.T) {
		payload := `[null,[null,[
			[null,"Media item"],
			[null,"Second",null,0,[[402]]]
		]]]`
		questions, ok := questionsFromPayload(payloadPage(payload), logger)
		require.True(t, ok)
		require.Len(t, questions, 1)
		assert.Equal(t, "q2", questions[0].ID, "ids keep the source index, gaps allowed")
	})

	t.Run("required flag only when exactly 1", func(t *testing.T) {
		payload := `[null,[null,[
			[null,"Must answer",null,0,[[501,null,1]]],
			[null,"Optional",null,0,[[502,null,0]]]
		]]]`
		questions, ok := questionsFromPayload(payloadPage(payload), logger)
		require.True(t, ok)
		require.Len(t, questions, 2)
		assert.True(t, questions[0].Required)
		assert.False(t, questions[1].Required)
	})

	t.Run("empty option labels are dropped", func(t *testing.T) {
		payload := `[null,[null,[[null,"Pick",null,2,[[601,[["A"],[""],["B"]],0]]]]]]`
		questions, ok := questionsFromPayload(payloadPage(payload), logger)
		require.True(t, ok)
		require.Len(t, questions, 1)
		assert.Equal(t, []string{"A", "B"}, questions[0].Options)
	})

	t.Run("truncated roots yield no questions but stay ok", func(t *testing.T) {
		for _, payload := range []string{`[]`, `[null]`, `[null,[]]`, `[null,[null]]`} {
			questions, ok := questionsFromPayload(payloadPage(payload), logger)
			assert.True(t, ok, "payload %s", payload)
			assert.Empty(t, questions, "payload %s", payload)
		}
	})
}
