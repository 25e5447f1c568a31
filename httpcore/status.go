// Package httpcore implements the HTTP message parser (C9): request/response
// start lines, case-insensitive headers, and chunked/length-delimited body
// framing, all built on caret. It also carries the minimal writer side
// (start line + headers onto the wire) that the response factory in
// package web needs to turn a constructed Response back into bytes.
package httpcore

// Status pairs a numeric HTTP status code with its canonical reason phrase.
type Status struct {
	Code   int
	Reason string
}

// String renders "404 Not Found".
func (s Status) String() string {
	return itoa(s.Code) + " " + s.Reason
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// reasonPhrases is the canonical reason-phrase table spec.md §6 requires
// ("canonical reason phrases" for 100-511), taken verbatim in meaning from
// the oatpp Http.cpp status table in original_source/.
var reasonPhrases = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	102: "Processing",

	200: "OK",
	201: "Created",
	202: "Accepted",
	203: "Non-Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",
	207: "Multi-Status",
	226: "IM Used",

	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Moved Temporarily",
	303: "See Other",
	304: "Not Modified",
	305: "Use Proxy",
	306: "Reserved",
	307: "Temporary Redirect",

	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Request Entity Too Large",
	414: "Request-URI Too Large",
	415: "Unsupported Media Type",
	416: "Requested Range Not Satisfiable",
	417: "Expectation Failed",
	422: "Unprocessable Entity",
	423: "Locked",
	424: "Failed Dependency",
	425: "Unordered Collection",
	426: "Upgrade Required",
	428: "Precondition Required",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	434: "Requested host unavailable",
	444: "Close connection without sending headers",
	449: "Retry With",
	451: "Unavailable For Legal Reasons",

	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "HTTP Version Not Supported",
	506: "Variant Also Negotiates",
	507: "Insufficient Storage",
	508: "Loop Detected",
	509: "Bandwidth Limit Exceeded",
	510: "Not Extended",
	511: "Network Authentication Required",
}

// StatusFor returns the canonical Status for code, or a generic reason if
// code is not in the table.
func StatusFor(code int) Status {
	if r, ok := reasonPhrases[code]; ok {
		return Status{Code: code, Reason: r}
	}
	return Status{Code: code, Reason: "Unknown"}
}

// Canonical status values used throughout the dispatcher's error mapping
// (spec.md §7's right-hand column).
var (
	StatusOK                  = StatusFor(200)
	StatusNoContent           = StatusFor(204)
	StatusBadRequest          = StatusFor(400)
	StatusNotFound            = StatusFor(404)
	StatusMethodNotAllowed    = StatusFor(405)
	StatusRequestHeaderTooBig = StatusFor(431)
	StatusInternalServerError = StatusFor(500)
)
