package models

type ConversionRequest struct {
	Value  float64 `json:"value" msgpack:"value"`
	From   string  `json:"from" msgpack:"from"`
	To     string  `json:"to" msgpack:"to"`
	Domain string  `json:"domain" msgpack:"domain"`
}

type ConversionResponse struct {
	Value     float64 `json:"value" msgpack:"value"`
	From      string  `json:"from" msgpack:"from"`
	To        string  `json:"to" msgpack:"to"`
	Domain    string  `json:"domain" msgpack:"domain"`
	Result    float64 `json:"result" msgpack:"result"`
	Formatted string  `json:"formatted,omitempty" msgpack:"formatted,omitempty"`
	Error     string  `json:"error,omitempty" msgpack:"error,omitempty"`
	Kind      string  `json:"kind,omitempty" msgpack:"kind,omitempty"`
}

type BatchRequest struct {
	Requests []ConversionRequest `json:"requests" msgpack:"requests"`
}

type BatchResponse struct {
	Results []ConversionResponse `json:"results" msgpack:"results"`
	Failed  int                  `json:"failed" msgpack:"failed"`
}

type UnitOption struct {
	Code  string `json:"code" msgpack:"code"`
	Name  string `json:"name" msgpack:"name"`
	Label string `json:"label" msgpack:"label"`
}

type ErrorResponse struct {
	Error string `json:"error" msgpack:"error"`
	Kind  string `json:"kind" msgpack:"kind"`
}
