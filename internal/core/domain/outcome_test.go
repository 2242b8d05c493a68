package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIResponse_OK(t *testing.T) {
	assert.True(t, APIResponse{StatusCode: 200}.OK())
	assert.True(t, APIResponse{StatusCode: 201}.OK())
	assert.False(t, APIResponse{StatusCode: 0}.OK())
	assert.False(t, APIResponse{StatusCode: 302}.OK())
	assert.False(t, APIResponse{StatusCode: 500}.OK())
}

func TestUnitOutcome_Succeeded(t *testing.T) {
	assert.True(t, UnitOutcome{}.Succeeded())
	assert.True(t, UnitOutcome{Response: &APIResponse{StatusCode: 204}}.Succeeded())
	assert.False(t, UnitOutcome{Response: &APIResponse{StatusCode: 400}}.Succeeded())
	assert.False(t, UnitOutcome{Reason: ReasonNoData}.Succeeded())
	assert.False(t, UnitOutcome{Err: errors.New("boom")}.Succeeded())
}

func TestUnitOutcome_Detail(t *testing.T) {
	assert.Equal(t, "bad request", UnitOutcome{Response: &APIResponse{StatusCode: 400, Body: "bad request"}}.Detail())
	assert.Equal(t, "boom", UnitOutcome{Err: errors.New("boom")}.Detail())
	assert.Equal(t, "no_data", UnitOutcome{Reason: ReasonNoData}.Detail())
}

func TestProcessingOutcome_Success(t *testing.T) {
	var o ProcessingOutcome
	assert.False(t, o.Success(), "a file with no units has delivered nothing")

	o.Add(UnitOutcome{Artifact: "a.json", Response: &APIResponse{StatusCode: 200}})
	o.Add(UnitOutcome{Artifact: "b.json", Response: &APIResponse{StatusCode: 201}})
	assert.True(t, o.Success())
	assert.Equal(t, []string{"a.json", "b.json"}, o.Artifacts)
	assert.Empty(t, o.Failed())

	o.Add(UnitOutcome{Unit: "c.txt", Reason: ReasonConversionFailed})
	assert.False(t, o.Success())
	assert.Len(t, o.Failed(), 1)
	assert.Len(t, o.Responses(), 2)
}

func TestRunSummary_Counts(t *testing.T) {
	ok := ProcessingOutcome{Units: []UnitOutcome{{}}}
	bad := ProcessingOutcome{Units: []UnitOutcome{{Reason: ReasonAPIRejected}}}
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	s := RunSummary{Files: []ProcessingOutcome{ok, bad, ok}, StartedAt: start, FinishedAt: start.Add(3 * time.Second)}

	assert.Equal(t, 2, s.Succeeded())
	assert.Equal(t, 1, s.FailedFiles())
	assert.Equal(t, 3*time.Second, s.Duration())
}
