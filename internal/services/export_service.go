package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"fleetflow/internal/domain"
	"fleetflow/internal/repositories"
	"fleetflow/internal/utils"
)

// ExportService produces the trip log CSV and the fleet summary PDF.
type ExportService struct {
	Trips     repositories.TripsRepository
	Analytics AnalyticsService
	RequestID string
	Now       func() time.Time
}

func (s ExportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

var tripCSVHeader = []string{
	"Trip ID", "Vehicle", "Driver", "Origin", "Destination",
	"Cargo Weight", "Distance", "Revenue", "Status", "Start Time", "End Time",
}

// TripsCSV renders every trip as one CSV row, newest first.
func (s ExportService) TripsCSV(actor domain.RequestContext) ([]byte, string, error) {
	trips, err := s.Trips.ListWithNames()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tripCSVHeader); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to write csv", Err: err}
	}
	for _, t := range trips {
		rec := []string{
			strconv.FormatInt(t.ID, 10),
			t.VehicleName,
			t.DriverName,
			t.Origin,
			t.Destination,
			formatAmount(t.CargoWeight),
			formatAmount(t.Distance),
			formatAmount(t.Revenue),
			t.Status,
			formatStamp(t.StartTime),
			formatStamp(t.EndTime),
		}
		if err := w.Write(rec); err != nil {
			return nil, "", domain.InternalError{Msg: "failed to write csv", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to write csv", Err: err}
	}

	utils.LogEvent(s.RequestID, "export", "trips_csv", fmt.Sprintf("rows=%d", len(trips)))
	return buf.Bytes(), "fleetflow_report.csv", nil
}

// SummaryPDF renders the analytics summary as a one-page report.
func (s ExportService) SummaryPDF(actor domain.RequestContext) ([]byte, string, error) {
	summary, err := s.Analytics.Summary(actor)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "export", "summary_pdf", "")
	return buildSummaryPDF(summary, s.now())
}

func buildSummaryPDF(summary AnalyticsSummary, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fleet Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FLEET SUMMARY REPORT")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+now.Format("2006-01-02 15:04")+" UTC")
	pdf.Ln(12)

	k := summary.KPIs
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Fleet")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Vehicles          : %d total, %d available, %d on trip, %d in shop", k.TotalVehicles, k.AvailableVehicles, k.OnTripVehicles, k.InShopVehicles),
		fmt.Sprintf("Drivers           : %d total, %d on duty", k.TotalDrivers, k.OnDutyDrivers),
		fmt.Sprintf("Trips             : %d active, %d completed", k.ActiveTrips, k.CompletedTrips),
		fmt.Sprintf("Utilization       : %.1f%%", k.Utilization),
		fmt.Sprintf("Fuel efficiency   : %.2f km/L", k.FuelEfficiency),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Financials")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	money := []string{
		fmt.Sprintf("Total revenue     : %s", formatAmount(k.TotalRevenue)),
		fmt.Sprintf("Fuel cost         : %s", formatAmount(k.TotalFuelCost)),
		fmt.Sprintf("Maintenance cost  : %s", formatAmount(k.TotalMaintenanceCost)),
		fmt.Sprintf("Other cost        : %s", formatAmount(summary.CostBreakdown.Other)),
		fmt.Sprintf("Total expenses    : %s", formatAmount(k.TotalExpenses)),
	}
	for _, l := range money {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Vehicle ROI")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, v := range summary.VehicleROI {
		pdf.Cell(0, 7, fmt.Sprintf("%-24s revenue %s, cost %s, ROI %.1f%%", v.Name, formatAmount(v.Revenue), formatAmount(v.Cost), v.ROI))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render pdf", Err: err}
	}
	filename := fmt.Sprintf("fleet_summary_%s.pdf", now.Format("20060102"))
	return buf.Bytes(), filename, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
