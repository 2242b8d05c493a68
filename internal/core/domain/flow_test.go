package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Inbound")
	require.NoError(t, err)
	assert.Equal(t, DirectionInbound, d)

	d, err = ParseDirection("outbound")
	require.NoError(t, err)
	assert.Equal(t, DirectionOutbound, d)

	_, err = ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestFlowDefinition_Mode(t *testing.T) {
	assert.Equal(t, TransferLocal, FlowDefinition{}.Mode())
	assert.Equal(t, TransferSFTP, FlowDefinition{UseSFTP: true}.Mode())
	assert.Equal(t, TransferS3, FlowDefinition{UseSFTP: true, Transfer: TransferS3}.Mode())
}

func TestFlowDefinition_SourceDir(t *testing.T) {
	f := FlowDefinition{LocalInputDir: "in", Remote: RemoteDirs{InputDir: "/Outgoing"}}
	assert.Equal(t, "in", f.SourceDir())

	f.UseSFTP = true
	assert.Equal(t, "/Outgoing", f.SourceDir())
}

func TestFlowDefinition_MatchesStartPattern(t *testing.T) {
	f := FlowDefinition{StartPattern: "GNCORD"}

	assert.True(t, f.MatchesStartPattern("GNCORD_20240601.dat"))
	assert.True(t, f.MatchesStartPattern("gncord_20240601.dat"))
	assert.False(t, f.MatchesStartPattern("ASN_20240601.dat"))
	assert.True(t, FlowDefinition{}.MatchesStartPattern("anything.txt"))
}

func TestFlowDefinition_DispositionDir(t *testing.T) {
	f := FlowDefinition{}
	assert.Equal(t, "/Incoming/Archives", f.DispositionDir(true))
	assert.Equal(t, "/Incoming/DeadLetter", f.DispositionDir(false))

	f.RemoteRoot = "/gnc"
	assert.Equal(t, "/gnc/Incoming/Archives", f.DispositionDir(true))
}

func TestFlowDefinition_OutputName(t *testing.T) {
	now := time.Date(2024, 6, 10, 14, 5, 9, 0, time.UTC)

	f := FlowDefinition{Name: "03FCOutboundFile", OutputFileName: "RCPT_{datetime}.dat"}
	assert.Equal(t, "RCPT_20240610_140509.dat", f.OutputName(now, "output.dat"))

	f.OutputFileName = ""
	assert.Equal(t, "GNC_DAILY_CLIENT.csv", f.OutputName(now, "GNC_DAILY_CLIENT.csv"))
	assert.Equal(t, "03FCOutboundFile_20240610_140509.dat", f.OutputName(now, ""))

	f.FileExtension = "csv"
	assert.Equal(t, "03FCOutboundFile_20240610_140509.csv", f.OutputName(now, ""))
}

func TestFlowDefinition_PackagingOwner(t *testing.T) {
	f := FlowDefinition{Partner: "GNC"}
	owner, project := f.PackagingOwner()
	assert.Equal(t, "GNC", owner)
	assert.Equal(t, "GNC", project)

	f.Packaging = &PackagingSpec{Project: "GNC-RETAIL"}
	owner, project = f.PackagingOwner()
	assert.Equal(t, "GNC", owner)
	assert.Equal(t, "GNC-RETAIL", project)
}

func TestAPISettings_ResolveURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com/orders", APISettings{URL: "https://api.example.com/orders"}.ResolveURL("https://ignored"))
	assert.Equal(t, "https://api.example.com/api/orders/create",
		APISettings{Endpoint: "/api/orders/create"}.ResolveURL("https://api.example.com/"))
	assert.Equal(t, "api/orders", APISettings{Endpoint: "api/orders"}.ResolveURL(""))
	assert.Equal(t, "", APISettings{}.ResolveURL("https://api.example.com"))
}

func TestAPISettings_Defaults(t *testing.T) {
	a := APISettings{}
	assert.Equal(t, "GET", a.HTTPMethod("GET"))
	assert.Equal(t, DefaultAPITimeout, a.Timeout())

	a.Method = "post"
	a.TimeoutSeconds = 5
	assert.Equal(t, "POST", a.HTTPMethod("GET"))
	assert.Equal(t, 5*time.Second, a.Timeout())
}

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{}
	assert.Equal(t, 1, p.Attempts())
	assert.Equal(t, time.Second, p.Delay())

	zero := 0.0
	half := 0.5
	p = RetryPolicy{MaxAttempts: 3, DelaySeconds: &zero}
	assert.Equal(t, 3, p.Attempts())
	assert.Equal(t, time.Duration(0), p.Delay())

	p.DelaySeconds = &half
	assert.Equal(t, 500*time.Millisecond, p.Delay())
}
