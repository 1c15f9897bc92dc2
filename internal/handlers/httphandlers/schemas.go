package httphandlers

import "time"

type ConfigResponse struct {
	Version string
	Config  interface{}
}

type SummaryResponse struct {
	Version    string             `json:"version"`
	Connection ConnectionResponse `json:"connection"`
	Results    ResultsResponse    `json:"results"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type ConnectionResponse struct {
	Pool             string `json:"pool"`
	IP               string `json:"ip"`
	Connected        bool   `json:"connected"`
	DisconnectReason string `json:"disconnectReason,omitempty"`
	Uptime           int64  `json:"uptime"` // seconds
	Ping             int64  `json:"ping"`   // ms
	Failures         uint64 `json:"failures"`
}

type ResultsResponse struct {
	DiffCurrent uint64   `json:"diffCurrent"`
	SharesGood  uint64   `json:"sharesGood"`
	SharesTotal uint64   `json:"sharesTotal"`
	AvgTime     int64    `json:"avgTime"` // seconds
	HashesTotal uint64   `json:"hashesTotal"`
	Best        []uint64 `json:"best"`
}

type MessageResponse struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}
