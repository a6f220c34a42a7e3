package handlers

import (
	"net/http"
)

// USSDCallback serves the telephony gateway. The request is form-encoded
// ("text" is the accumulated session path, "phoneNumber" the caller); the
// response is plain text prefixed CON to continue or END to terminate.
// Like the payment webhook, it always answers 200.
func USSDCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("END Invalid request. Please dial again."))
		return
	}

	text := r.FormValue("text")
	phone := r.FormValue("phoneNumber")

	reply := ussdRouter.Handle(r.Context(), text, phone)

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(reply.Render()))
}
