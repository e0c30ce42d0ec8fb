package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/promptguide/internal/ir"
)

func TestEventType_RoundTrip(t *testing.T) {
	for typ, name := range eventNames {
		assert.Equal(t, name, typ.String())

		got, err := ParseEventType(name)
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	assert.Len(t, eventNames, 14)
}

func TestParseEventType_Unknown(t *testing.T) {
	_, err := ParseEventType("launch_rocket")
	assert.ErrorContains(t, err, "launch_rocket")
}

func TestEventType_StringUnknown(t *testing.T) {
	assert.Equal(t, "event(42)", EventType(42).String())
}

func TestNewEvent_RoutesArgument(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want Event
	}{
		{"select_category", "reasoning", SelectCategory("reasoning")},
		{"set_search_query", "chain", SetSearchQuery("chain")},
		{"open_technique", "cot", OpenTechnique("cot")},
		{"toggle_favorite", "rag", ToggleFavorite("rag")},
		{"answer_quiz", "few-shot", AnswerQuiz("few-shot")},
		{"edit_prompt", "hello", EditPrompt("hello")},
		{"close_technique", "ignored", CloseTechnique()},
		{"toggle_theme", "", ToggleTheme()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEvent(tt.name, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEvent_Unknown(t *testing.T) {
	_, err := NewEvent("nope", "")
	assert.Error(t, err)
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, `open_technique("cot")`, OpenTechnique("cot").String())
	assert.Equal(t, `set_search_query("")`, SetSearchQuery("").String())
	assert.Equal(t, "open_quiz", OpenQuiz().String())
}

func TestEvent_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(ToggleFavorite(ir.TechniqueID("rag")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"toggle_favorite","arg":"rag"}`, string(b))

	b, err = json.Marshal(NextQuizQuestion())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"next_quiz_question"}`, string(b))
}

func TestTraceEntry_String(t *testing.T) {
	ok := TraceEntry{Seq: 3, Event: OpenTechnique("cot"), Accepted: true}
	assert.Equal(t, `3 open_technique("cot") ok`, ok.String())

	rejected := TraceEntry{Seq: 4, Event: AnswerQuiz("x"), Code: ErrCodeNoQuizSession}
	assert.Equal(t, `4 answer_quiz("x") rejected NO_QUIZ_SESSION`, rejected.String())

	assert.Equal(t, ok.String()+"\n"+rejected.String()+"\n", FormatTrace([]TraceEntry{ok, rejected}))
}

func TestCodeOf(t *testing.T) {
	err := unknownCategoryError(SelectCategory("x"))
	assert.Equal(t, ErrCodeUnknownCategory, CodeOf(err))
	assert.True(t, IsRuntimeCode(err, ErrCodeUnknownCategory))
	assert.False(t, IsRuntimeCode(err, ErrCodeUnknownTechnique))
	assert.Empty(t, CodeOf(assert.AnError))
}
