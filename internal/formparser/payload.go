// File: internal/formparser/payload.go
package formparser

import (
	"fmt"
	"regexp"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// The page embeds its authoritative question metadata as a global variable
// assignment. This is the preferred extraction tier because it carries the
// exact field keys and option ordering the submission endpoint expects.
var payloadPattern = regexp.MustCompile(`(?s)FB_PUBLIC_LOAD_DATA_\s*=\s*(\[.*?\]);`)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Internal type codes of the payload format, reverse engineered from live
// samples. Unknown codes degrade to SHORT_TEXT. The offsets below are an
// external contract: guard every index and never extend them speculatively.
var typeCodeKinds = map[int]schemas.QuestionKind{
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

const (
	typeCodeLinearScale = 3
	defaultScaleMin     = 1
	defaultScaleMax     = 5
)

func kindForTypeCode(code int) schemas.QuestionKind {
	if k, ok := typeCodeKinds[code]; ok {
		return k
	}
	return schemas.KindShortText
}

// questionsFromPayload runs the structured extraction tier. The second
// return is false when the payload is absent or does not parse as JSON, in
// which case the caller falls back to DOM heuristics.
func questionsFromPayload(body []byte, logger *zap.Logger) ([]schemas.Question, bool) {
	m := payloadPattern.FindSubmatch(body)
	if m == nil {
		return nil, false
	}

	var root []interface{}
	if err := jsonAPI.Unmarshal(m[1], &root); err != nil {
		logger.Debug("structured payload did not parse as JSON", zap.Error(err))
		return nil, false
	}

	return walkPayload(root), true
}

// walkPayload recovers questions from the nested array structure. Field
// positions: root[1][1] is the item list; per item, [1] label, [3] type
// code, [4][0][0] entry id, [4][0][1] options, [4][0][2] required flag,
// [4][0][3] scale bounds.
func walkPayload(root []interface{}) []schemas.Question {
	var questions []schemas.Question

	formData, ok := indexValue(root, 1)
	if !ok {
		return questions
	}
	items, ok := indexValue(formData, 1)
	if !ok {
		return questions
	}
	itemList, ok := items.([]interface{})
	if !ok {
		return questions
	}

	for i, raw := range itemList {
		item, ok := raw.([]interface{})
		if !ok || len(item) < 5 {
			continue
		}

		label, ok := indexString(item, 1)
		if !ok || label == "" {
			continue
		}

		typeCode := -1
		if n, ok := indexNumber(item, 3); ok {
			typeCode = int(n)
		}

		answerMeta, _ := indexValue(item, 4)
		first, _ := indexValue(answerMeta, 0)

		fieldKey := entryFieldKey(first)
		if fieldKey == "" {
			// Items without an entry id (section headers, media) are not
			// answerable.
			continue
		}

		q := schemas.Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Kind:     kindForTypeCode(typeCode),
			Label:    label,
			FieldKey: fieldKey,
		}

		if n, ok := indexNumber(first, 2); ok && n == 1 {
			q.Required = true
		}

		if optsRaw, ok := indexValue(first, 1); ok {
			if opts, ok := optsRaw.([]interface{}); ok {
				for _, o := range opts {
					if s, ok := indexString(o, 0); ok && s != "" {
						q.Options = append(q.Options, s)
					}
				}
			}
		}

		if typeCode == typeCodeLinearScale {
			q.ScaleMin, q.ScaleMax = defaultScaleMin, defaultScaleMax
			if bounds, ok := indexValue(first, 3); ok {
				if n, ok := indexNumber(bounds, 0); ok && n != 0 {
					q.ScaleMin = int(n)
				}
				if n, ok := indexNumber(bounds, 1); ok && n != 0 {
					q.ScaleMax = int(n)
				}
			}
		}

		questions = append(questions, q)
	}

	return questions
}

// entryFieldKey builds the wire level parameter name from the entry id,
// which appears numerically in live payloads but is guarded for strings too.
func entryFieldKey(answerEntry interface{}) string {
	if n, ok := indexNumber(answerEntry, 0); ok {
		return fmt.Sprintf("entry.%d", int64(n))
	}
	if s, ok := indexString(answerEntry, 0); ok && s != "" {
		return "entry." + s
	}
	return ""
}

// -- guarded index helpers over interface{} arrays --

func indexValue(v interface{}, i int) (interface{}, bool) {
	arr, ok := v.([]interface{})
	if !ok || i < 0 || i >= len(arr) {
		return nil, false
	}
	if arr[i] == nil {
		return nil, false
	}
	return arr[i], true
}

func indexString(v interface{}, i int) (string, bool) {
	el, ok := indexValue(v, i)
	if !ok {
		return "", false
	}
	s, ok := el.(string)
	return s, ok
}

func indexNumber(v interface{}, i int) (float64, bool) {
	el, ok := indexValue(v, i)
	if !ok {
		return 0, false
	}
	n, ok := el.(float64)
	return n, ok
}
