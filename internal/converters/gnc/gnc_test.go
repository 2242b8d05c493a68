package gnc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var fixedNow = time.Date(2024, 6, 10, 14, 5, 9, 0, time.UTC)

func testOptions(lookup *fakeLookup) base.Options {
	opts := base.Options{Owner: "GNC", Project: "GNC", Now: func() time.Time { return fixedNow }}
	if lookup != nil {
		opts.Lookup = lookup
	}
	return opts
}

type fakeLookup struct {
	calls map[string]int
}

func (f *fakeLookup) Lookup(_ context.Context, _, _, material string) ([]domain.PackagingCandidate, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[material]++
	five, two := 5.0, 2.0
	return []domain.PackagingCandidate{
		{Packaging: "CS5", BaseQuantity: &five},
		{Packaging: "CS2", BaseQuantity: &two},
	}, nil
}

// record places each value at its 1-based start column.
func record(width int, fields map[int]string) string {
	buf := []rune(strings.Repeat(" ", width))
	for start, v := range fields {
		copy(buf[start-1:], []rune(v))
	}
	return string(buf)
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readDoc(t *testing.T, path string) domain.OrderDocument {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc domain.OrderDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func readText(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func gncOrderLine(material, qty string) string {
	return record(1710, map[int]string{
		1:    "ORDREC",
		15:   "CST-00042",
		29:   "Jane Public",
		339:  "1 Main St",
		531:  "Springfield",
		585:  "IL",
		587:  "62701",
		597:  "US",
		613:  "Acme Billing",
		1249: "HOST123",
		1265: material,
		1313: qty,
		1345: "PO-77",
		1460: "Leave at door",
		1687: "Q",
		1695: "BK-" + material,
	})
}

func TestOrders_Convert(t *testing.T) {
	input := writeInput(t, "ORD001.dat", strings.Join([]string{
		gncOrderLine("MAT-A", "00003"),
		"",
		gncOrderLine("MAT-B", "00010"),
		gncOrderLine("MAT-A", "00001"),
		"#EOT",
	}, "\n"))
	lookup := &fakeLookup{}
	out := t.TempDir()

	arts, err := NewOrders(testOptions(lookup)).Convert(context.Background(), input, out)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, filepath.Join(out, "ORD001_20240610_140509.json"), arts[0].Path)
	assert.Equal(t, 3, arts[0].Rows)

	doc := readDoc(t, arts[0].Path)
	require.Len(t, doc.Orders, 1)
	order := doc.Orders[0]
	assert.Equal(t, "GNC", order.Owner)
	assert.Equal(t, "HOST123", order.OwnerReference)
	assert.Equal(t, "HOST123", order.Lookup)
	assert.Equal(t, "PO-77", order.VendorReference)
	assert.Equal(t, "GRND", order.Carrier)
	assert.Equal(t, "2301", order.Warehouse)
	assert.Equal(t, "Leave at door", order.Notes)
	require.Len(t, order.Addresses, 2)
	assert.Equal(t, domain.AddressShipping, order.Addresses[0].Type)
	assert.Equal(t, "Jane", order.Addresses[0].FirstName)
	assert.Equal(t, "Public", order.Addresses[0].LastName)
	assert.Equal(t, int64(42), order.Addresses[0].OrderID)
	assert.Equal(t, domain.AddressBilling, order.Addresses[1].Type)
	assert.Equal(t, "Acme Billing", order.Addresses[1].Name)

	require.Len(t, order.OrderLines, 3)
	assert.Equal(t, 1, order.OrderLines[0].LineNumber)
	assert.Equal(t, "MAT-A", order.OrderLines[0].Material)
	assert.Equal(t, "BK-MAT-A", order.OrderLines[0].VendorLot)
	assert.Equal(t, 3.0, order.OrderLines[0].PackagedAmount)
	assert.Equal(t, "CS2", order.OrderLines[0].Packaging)
	assert.Equal(t, 3, order.OrderLines[2].LineNumber)

	assert.Equal(t, 1, lookup.calls["MAT-A"])
	assert.Equal(t, 1, lookup.calls["MAT-B"])
}

func TestOrders_EmptyFileIsNoData(t *testing.T) {
	input := writeInput(t, "empty.dat", "\n#EOT\n")

	arts, err := NewOrders(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestOrders_MissingFile(t *testing.T) {
	_, err := NewOrders(testOptions(nil)).Convert(context.Background(), "/nonexistent/file.dat", t.TempDir())
	assert.Error(t, err)
}

func TestASN_Convert(t *testing.T) {
	input := writeInput(t, "asn.csv", strings.Join([]string{
		`"CL1","MAT-1","Vitamins","12","","","","CS","1.5","","","","","","","INV1","20240601","STD"`,
		`short,row`,
		`"CL1","MAT-2","Protein","3","","","","CS","0","","","","","","","INV1","20240601","STD"`,
	}, "\n"))

	arts, err := NewASN(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	require.Len(t, arts, 1)

	order := readDoc(t, arts[0].Path).Orders[0]
	assert.Equal(t, "CL1", order.Lookup)
	assert.Equal(t, "A", order.Status)
	assert.Equal(t, "2024-06-01T00:00:00", order.RequestedDeliveryDate)
	require.Len(t, order.OrderLines, 2)
	assert.Equal(t, 1, order.OrderLines[0].LineNumber)
	assert.Equal(t, 3, order.OrderLines[1].LineNumber)
	assert.Equal(t, 12.0, order.OrderLines[0].PackagedAmount)
	assert.Equal(t, "Vitamins", order.OrderLines[0].CustomFields[0].Value)
	assert.Equal(t, []domain.CustomField{{Name: "invoice_date", Value: "20240601"}}, order.CustomFields)
}

const shippedOrders = `{
  "orders": [{
    "owner": "GNC", "lookup": "L-1", "owner_reference": "778899", "vendor_reference": "HP-1",
    "carrier": "UPS", "carrier_service": "G", "status": "Shipped",
    "created_on": "2024-06-03T08:15:30Z", "shipped_on": "2024-06-04",
    "addresses": [
      {"type": "BillTo", "name": "Bill Person", "city": "Billings"},
      {"type": "ShipTo", "name": "Ship Person", "line_1": "1 Dock Rd", "city": "Portland", "state": "OR"}
    ],
    "order_lines": [
      {"line_number": 1, "material": "MAT-A", "packaged_amount": 4, "status": "Completed"},
      {"line_number": 2, "material": "MAT-B", "packaged_amount": 0, "status": "Completed"},
      {"line_number": 3, "material": "MAT-C", "packaged_amount": 2, "status": "Open"}
    ],
    "shipments": [{"tracking_identifier": "1Z999", "reference_number": "CTN-1", "gross_weight": 12.5}]
  }],
  "paging": {"total_records": 1, "returned_records": 1}
}`

const noOrders = `{"orders": [], "paging": {"total_records": 0, "returned_records": 0}}`

func TestShipmentsFixed_Convert(t *testing.T) {
	input := writeInput(t, "api.json", shippedOrders)

	arts, err := NewShipmentsFixed(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, 3, arts[0].Rows)

	lines := strings.Split(strings.TrimRight(readText(t, arts[0].Path), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "000"+strings.Repeat(" ", 50), lines[0])
	assert.Equal(t, "9990000000000003"+strings.Repeat(" ", 37), lines[4])

	rec := lines[1]
	assert.Len(t, rec, shipmentLayout.Width())
	assert.Equal(t, "MRS", rec[0:3])
	assert.Equal(t, "0000000778899", rec[3:16])
	assert.Equal(t, "MAT-A       ", rec[16:28])
	assert.Equal(t, "004", rec[34:37])
	assert.Equal(t, "000", rec[37:40])
	assert.Equal(t, "Y", rec[40:41])
	assert.Equal(t, "24162", rec[41:46])
	assert.Equal(t, "0000000", rec[46:53])
	assert.Equal(t, "G", rec[53:54])
	assert.Equal(t, "1Z999", strings.TrimSpace(rec[54:84]))
	assert.Equal(t, "24162", rec[84:89])
	assert.Equal(t, "140509", rec[89:95])
}

func TestShipmentsFixed_NoRecords(t *testing.T) {
	input := writeInput(t, "api.json", noOrders)

	arts, err := NewShipmentsFixed(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestShipmentsCSV_Convert(t *testing.T) {
	input := writeInput(t, "ship.json", shippedOrders)

	arts, err := NewShipmentsCSV(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, 3, arts[0].Rows)

	lines := strings.Split(strings.TrimRight(readText(t, arts[0].Path), "\r\n"), "\r\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Client,HP Order,CDS Order"))
	assert.Equal(t,
		"MRS,HP-1,L-1,2024-06-03T08:15:30Z,Ship Person,1 Dock Rd,,,Portland,OR,,,2024-06-04,UPS,G,MAT-A,4,CTN-1,1Z999,12.5,Shipped",
		lines[1])
}

func TestShipToAddress(t *testing.T) {
	bill := base.APIAddress{Type: "BillTo", Name: "B"}
	ship := base.APIAddress{Type: "shipping", Name: "S"}
	assert.Equal(t, "S", shipToAddress([]base.APIAddress{bill, ship}).Name.String())
	assert.Equal(t, "B", shipToAddress([]base.APIAddress{bill}).Name.String())
	assert.Equal(t, "", shipToAddress(nil).Name.String())
}

func TestSalesOrders_Convert(t *testing.T) {
	input := writeInput(t, "so.json", `{
  "orders": [
    {"created_on": "2024-06-03T08:15:30Z", "order_lines": [
      {"material": "MAT-A", "packaged_amount": 5, "status": "Completed"},
      {"material": "MAT-B", "packaged_amount": 5, "status": "Picked"},
      {"material": "MAT-C", "packaged_amount": 0, "status": "Completed"}
    ]},
    {"created_on": "2024-06-04T00:00:00Z", "order_lines": []}
  ]
}`)

	arts, err := NewSalesOrders(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, "output.dat", filepath.Base(arts[0].Path))
	assert.Equal(t,
		`"20240603081530","MRS","06032024","MAT-A",5,"EA","A"`+"\n"+
			`"20240604000000","MRS","06042024","",0,"EA","A"`+"\n",
		readText(t, arts[0].Path))
}

func TestSalesOrders_NoRecords(t *testing.T) {
	input := writeInput(t, "so.json", noOrders)

	arts, err := NewSalesOrders(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestInventory_Convert(t *testing.T) {
	input := writeInput(t, "inv.json", `{"adjustments": [
  {"completed_on": "2024-06-05T10:11:12Z", "material": "MAT-A", "packaged_amount": -3},
  {"completed_on": "", "material": "MAT-B", "packaged_amount": 7}
]}`)

	arts, err := NewInventory(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, 2, arts[0].Rows)
	assert.Equal(t,
		`"trndte","client_id","prtnum","trnqty","stkuom","reacod","uc_adj_comm","invsts"`+"\n"+
			`"20240605101112","MRS","MAT-A","-3","EA","","","A"`+"\n"+
			`"","MRS","MAT-B","7","EA","","","A"`+"\n",
		readText(t, arts[0].Path))
}

func TestInventory_EmptyResponse(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "no adjustments": `{"adjustments": []}`, "garbage": "oops"} {
		t.Run(name, func(t *testing.T) {
			input := writeInput(t, "inv.json", body)
			arts, err := NewInventory(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
			require.NoError(t, err)
			assert.Empty(t, arts)
		})
	}
}

func TestDailyClient_Convert(t *testing.T) {
	input := writeInput(t, "daily.json", `{"results": [
  {"material": "MAT-B", "packaged_amount": 10, "license_plate": "LP1"},
  {"material": "MAT-A", "packaged_amount": 4, "license_plate": "LP2"},
  {"material": "MAT-B", "packaged_amount": 5, "license_plate": "LP1"},
  {"material": "MAT-B", "packaged_amount": 1, "license_plate": "LP3"},
  {"material": "MAT-A", "packaged_amount": 2}
]}`)

	arts, err := NewDailyClient(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, DailyClientFile, filepath.Base(arts[0].Path))

	lines := strings.Split(strings.TrimRight(readText(t, arts[0].Path), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "PRTNUM,PRTFAM,DESCRIPTION,AVAILBLE,COMMITTED,HOLD,SECONDS,WASTE,On hand,LAST_RECEIPT_QUANTITY,LAST_RECEIPT_DATE,PALLET_COUNT", lines[0])
	assert.Equal(t, "MAT-B,MRS,,16,0,0,0,0,16,16,,2", lines[1])
	assert.Equal(t, "MAT-A,MRS,,6,0,0,0,0,6,6,,1", lines[2])
}

func TestDailyClient_NoResults(t *testing.T) {
	input := writeInput(t, "daily.json", `{"results": []}`)

	arts, err := NewDailyClient(testOptions(nil)).Convert(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, arts)
}
