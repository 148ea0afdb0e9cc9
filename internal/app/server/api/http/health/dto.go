package health

// Input represents the input for health check endpoint
type Input struct {
	AppID string `header:"X-App-ID" doc:"Identifier of the calling application"`
}

// Output represents the output for health check endpoint
type Output struct {
	Status int
	Body   Response
}

// Response represents the health check response.
// Fields after Manifest are only set on success, Error only on failure.
type Response struct {
	Status      string        `json:"status" example:"ok" doc:"ok or error"`
	Timestamp   string        `json:"timestamp" doc:"ISO-8601 time of the check"`
	AppID       string        `json:"appId" example:"Unknown"`
	Manifest    string        `json:"manifest" example:"connected" doc:"connected or disconnected"`
	Version     string        `json:"version,omitempty"`
	Environment string        `json:"environment,omitempty"`
	Uptime      *float64      `json:"uptime,omitempty" doc:"Process uptime in seconds"`
	Memory      *MemoryStats  `json:"memory,omitempty"`
	Platform    *PlatformInfo `json:"platform,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// MemoryStats is a subset of runtime.MemStats, in bytes.
type MemoryStats struct {
	RSS        uint64 `json:"rss" doc:"Total bytes obtained from the OS"`
	HeapTotal  uint64 `json:"heapTotal"`
	HeapUsed   uint64 `json:"heapUsed"`
	StackInUse uint64 `json:"stackInUse"`
	Goroutines int    `json:"goroutines"`
}

type PlatformInfo struct {
	Go       string `json:"go"`
	Arch     string `json:"arch"`
	Platform string `json:"platform"`
}
