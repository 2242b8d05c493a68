package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var gncOrders = domain.FlowDefinition{Partner: "GNC", Direction: domain.DirectionInbound, Name: "01GNCInboundFile"}

func TestFindOrderRef(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want string
	}{
		{"order id wins", map[string]any{"owner_reference": "R1", "order_id": float64(991)}, "991"},
		{"alternative key", map[string]any{"lookup": "", "reference": "REF-7"}, "REF-7"},
		{"nested", map[string]any{"data": []any{map[string]any{"orderNumber": "N-1"}}}, "N-1"},
		{"owner reference before lookup", map[string]any{"lookup": "L", "owner_reference": "O"}, "O"},
		{"none", map[string]any{"orders": []any{}}, ""},
		{"scalar", "x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindOrderRef(tt.doc))
		})
	}
}

func TestOrderRefFromPayload(t *testing.T) {
	assert.Equal(t, "PO-1", OrderRefFromPayload([]byte(`{"orders":[{"owner_reference":"PO-1","lookup":"L-1"}]}`)))
	assert.Equal(t, "", OrderRefFromPayload([]byte(`not json`)))
	assert.Equal(t, "", OrderRefFromPayload([]byte(`{"order_id":"A"} {"order_id":"B"}`)))
	assert.Equal(t, "", OrderRefFromPayload([]byte(`{"order_id":"A"`)))
}

func TestOrderRefFromPayload_ChildrenInDocumentOrder(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"later key first in document", `{"shipment":{"reference":"S-1"},"billing":{"reference":"B-1"}}`, "S-1"},
		{"earlier key first in document", `{"billing":{"reference":"B-1"},"shipment":{"reference":"S-1"}}`, "B-1"},
		{"inside first order", `{"orders":[{"zeta":{"lookup":"Z"},"alpha":{"lookup":"A"}}]}`, "Z"},
		{"own key beats earlier child", `{"child":{"order_id":"C"},"lookup":"L"}`, "L"},
		{"numeric order id", `{"order_id":1042}`, "1042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderRefFromPayload([]byte(tt.payload)))
		})
	}
}

func TestSplitReport(t *testing.T) {
	long := strings.Repeat("x", MaxResponseChars+50)
	outcome := domain.ProcessingOutcome{
		File: "/tmp/in/GNC_0610.txt",
		Units: []domain.UnitOutcome{
			{Unit: "1001.txt", OrderRef: "PO-1", Response: &domain.APIResponse{StatusCode: 201, Body: "{}"}},
			{Unit: "1002.txt", OrderRef: "PO<2>", Response: &domain.APIResponse{StatusCode: 400, Body: `bad & "wrong"`}},
			{Unit: "1003.txt", Response: &domain.APIResponse{StatusCode: 500, Body: long}},
			{Unit: "1004.txt", Reason: domain.ReasonConversionFailed, Err: errors.New("line 2: missing material")},
		},
	}

	n := SplitReport(gncOrders, outcome)
	assert.Equal(t, "[GNC.01GNCInboundFile] Processed Split File GNC_0610.txt", n.Subject)
	assert.True(t, n.HTML)
	assert.Contains(t, n.Body, "<th>order_id</th><th>status</th><th>response</th>")
	assert.Contains(t, n.Body, "<tr><td>PO-1</td><td>Success</td><td>Success</td></tr>")
	assert.Contains(t, n.Body, "<tr><td>PO&lt;2&gt;</td><td>Failed</td><td>bad &amp; &#34;wrong&#34;</td></tr>")
	assert.Contains(t, n.Body, "<tr><td>1003</td><td>Failed</td><td>"+strings.Repeat("x", MaxResponseChars)+"</td>")
	assert.NotContains(t, n.Body, strings.Repeat("x", MaxResponseChars+1))
	assert.Contains(t, n.Body, "line 2: missing material")
	assert.Contains(t, n.Body, "<tr><td>1004</td><td>Failed</td>")
}

func TestSplitReport_UnnamedUnit(t *testing.T) {
	outcome := domain.ProcessingOutcome{
		File:  "/tmp/in/GNC_0610.txt",
		Units: []domain.UnitOutcome{{Reason: domain.ReasonSplitFailed, Err: errors.New("disk full")}},
	}

	n := SplitReport(gncOrders, outcome)
	assert.Contains(t, n.Body, "<tr><td>-</td><td>Failed</td>")
}

func TestFailureReport(t *testing.T) {
	outcome := domain.ProcessingOutcome{
		File: "/tmp/in/FC_orders.txt",
		Units: []domain.UnitOutcome{
			{Unit: "FC_orders.txt", Artifact: "/out/FCorder_1.json", Response: &domain.APIResponse{StatusCode: 422, Body: "missing carrier"}},
			{Unit: "FC_orders.txt", Artifact: "/out/FCorder_2.json", Response: &domain.APIResponse{StatusCode: 201}},
			{Unit: "FC_orders.txt", Artifact: "/out/FCorder_3.json", Response: &domain.APIResponse{Body: "dial tcp: refused"}, Reason: domain.ReasonAPIUnreachable},
		},
	}

	n := FailureReport(domain.FlowDefinition{Partner: "FC", Name: "01FCInboundFile"}, outcome)
	assert.Equal(t, "[FC.01FCInboundFile] Failed File FC_orders.txt", n.Subject)
	assert.False(t, n.HTML)
	assert.True(t, strings.HasPrefix(n.Body, "File: FC_orders.txt\n\nAPI Response(s):\n"))
	assert.Contains(t, n.Body, "Converted JSON file: FCorder_1.json\nHTTP status: 422\nResponse:\nmissing carrier\n\n")
	assert.Contains(t, n.Body, "Converted JSON file: FCorder_3.json\nHTTP status: none\nResponse:\ndial tcp: refused\n\n")
	assert.NotContains(t, n.Body, "FCorder_2.json")
}

func TestOutboundReport(t *testing.T) {
	files := []string{"/out/shipments_20240610_140509.csv", "/out/daily.csv"}
	n := OutboundReport(domain.FlowDefinition{Partner: "FC", Name: "03FCOutboundFile"}, files)

	assert.Equal(t, "Outbound Flow Completed: FC.03FCOutboundFile", n.Subject)
	assert.Equal(t, files, n.Attachments)
	assert.Equal(t, "The outbound flow FC.03FCOutboundFile completed successfully.\n"+
		"Total files generated: 2\n\nFiles:\n"+
		"/out/shipments_20240610_140509.csv\n/out/daily.csv", n.Body)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "éé", truncate("ééé", 2))
}
