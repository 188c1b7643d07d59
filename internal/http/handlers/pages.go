package handlers

import "net/http"

func (v *View) Home(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, http.StatusOK, "index.html", "Home", nil)
}
