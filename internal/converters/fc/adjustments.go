package fc

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// reasonCodes maps adjustment projects to FC disposition segments.
var reasonCodes = map[string]string{
	"CLT USE":        "ASSIST",
	"CLT SPLE":       "ASSIST",
	"SCB":            "ASSIST",
	"INOUT":          "ASSIST",
	"01":             "ASSIST",
	"RETURNS":        "RETURNS",
	"SCRAP":          "ASSIST",
	"ASSIST":         "ASSIST",
	"CYCLE CNT":      "CYCLE CNT",
	"DAMAGE":         "DAMAGE",
	"IUSE":           "IUSE",
	"CMP":            "CMP",
	"KIT":            "KIT",
	"RTV":            "RTV",
	"SKU CHANGE":     "SKU CHANGE",
	"REWORK":         "REWORK",
	"DESTROY":        "DESTROY",
	"03":             "DESTROY",
	"RECYCLE":        "RECYCLE",
	"PICK ERROR":     "PICK ERROR",
	"QTY ERROR":      "QTY ERROR",
	"UOM":            "UOM",
	"RTN MFR":        "RTN MFR",
	"PI":             "PI",
	"HPE MISC":       "HPE MISC",
	"HPE DAMAGE":     "HPE DAMAGE",
	"RECEIPT DAMAGE": "RECEIPT DAMAGE",
	"MISC":           "MISC",
}

// ReasonCode maps an adjustment project to its disposition segment.
// Unknown projects pass through and a blank one becomes MISC.
func ReasonCode(project string) string {
	raw := strings.ToUpper(strings.TrimSpace(project))
	if code, ok := reasonCodes[raw]; ok {
		return code
	}
	if raw == "" {
		return "MISC"
	}
	return raw
}

// ConvertAdjustments renders inventory adjustments as the FC .dat file:
// TRNDTE,TRNTIME,0,ITEM,QTY,EA,SHIPPABLE,REASON,TYPE,X,PSG. Returns are
// skipped and negative quantities use transaction type 31, others 41.
func ConvertAdjustments(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}

	var rows []string
	for _, adj := range doc.Adjustments {
		reason := ReasonCode(adj.Project.String())
		if reason == "RETURNS" {
			continue
		}
		var date, clock string
		if ts, ok := base.ParseTimestamp(adj.CompletedOn.String()); ok {
			date, clock = ts.Format("20060102"), ts.Format("150405")
		}
		txType := "41"
		if adj.PackagedAmount < 0 {
			txType = "31"
		}
		rows = append(rows, base.Join(
			date, clock, "0",
			adj.Material.String(),
			adj.PackagedAmount.String(),
			domain.DefaultPackaging,
			"SHIPPABLE",
			reason,
			txType,
			"X", "PSG",
		))
	}
	if len(rows) == 0 {
		return nil, nil
	}

	art, err := base.WriteLines(filepath.Join(outputDir, "output.dat"), "", rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
