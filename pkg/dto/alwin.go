package dto

// DeviceState is the state of the capture device at the time a call is
// imported. It is supplied by the importer.
type DeviceState struct {
	Station  string
	ReaderID string
	Location string
}

// AlwinData carries one HTTP call and its response into the staging table.
type AlwinData struct {
	DeviceState

	HTTPCall     string
	JSONResponse string
}
