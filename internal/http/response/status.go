package response

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.Is2xx()
}

// IsError reports a 4xx/5xx status or a missing response
func (r *Response) IsError() bool {
	return r.statusCode == StatusNoResponse || r.statusCode >= 400
}

// NoResponse reports that the transport produced no status line
func (r *Response) NoResponse() bool {
	return r.statusCode == StatusNoResponse
}

func (r *Response) StatusIs(code int) bool {
	return r.statusCode == code
}

func (r *Response) StatusIsNot(code int) bool {
	return r.statusCode != code
}

func (r *Response) Is1xx() bool { return r.statusIn(100) }
func (r *Response) Is2xx() bool { return r.statusIn(200) }
func (r *Response) Is3xx() bool { return r.statusIn(300) }
func (r *Response) Is4xx() bool { return r.statusIn(400) }
func (r *Response) Is5xx() bool { return r.statusIn(500) }

func (r *Response) statusIn(base int) bool {
	return r.statusCode >= base && r.statusCode < base+100
}

// StatusClass returns "1xx".."5xx", or "none" for a missing response
func (r *Response) StatusClass() string {
	switch {
	case r.statusCode == StatusNoResponse:
		return "none"
	case r.statusCode >= 100 && r.statusCode < 600:
		return string(rune('0'+r.statusCode/100)) + "xx"
	default:
		return "other"
	}
}
