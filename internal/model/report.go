package model

// DBReport is the body of the web app's /api/test-db endpoint.
//
// On success Message and Data are set; on failure Success is false and
// Error holds the reason.
type DBReport struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Error   string        `json:"error,omitempty"`
	Data    *DBReportData `json:"data,omitempty"`
}

// DBReportData carries the counts and sample rows of a DBReport.
type DBReportData struct {
	BreaksCount     int        `json:"breaks_count"`
	ForecastsCount  int        `json:"forecasts_count"`
	SampleBreaks    []Break    `json:"sample_breaks"`
	SampleForecasts []Forecast `json:"sample_forecasts"`
}
