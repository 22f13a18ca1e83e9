package server

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

// page renders the HTML shell. The mount configuration is embedded as a
// JSON script element and the table is drawn by the inline script.
func page(title string, cfg leaderboard.FrontendConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		// JSON inside a script element must not close it.
		embedded := strings.ReplaceAll(string(doc), "</", `<\/`)

		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title>\n<style>")
		b.WriteString(pageStyle)
		b.WriteString("</style>\n</head>\n<body>\n<main>\n<h1>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</h1>\n<input id=\"search\" type=\"search\" hidden>\n<div id=\"filters\"></div>\n<div id=\"table\"></div>\n</main>\n")
		b.WriteString("<script id=\"leaderboard-config\" type=\"application/json\">")
		b.WriteString(embedded)
		b.WriteString("</script>\n<script>")
		b.WriteString(pageScript)
		b.WriteString("</script>\n</body>\n</html>\n")

		_, err = io.WriteString(w, b.String())
		return err
	})
}

const pageStyle = `
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 0.25rem 0.5rem; }
th { background: #f5f5f5; text-align: left; }
#search { margin-bottom: 1rem; }
`

const pageScript = `
(function () {
  var cfg = JSON.parse(document.getElementById("leaderboard-config").textContent);
  var search = document.getElementById("search");
  if (cfg.search_columns.primary_column) {
    search.hidden = false;
    search.placeholder = cfg.search_columns.placeholder || "Search " + cfg.search_columns.primary_column;
  }

  function matches(row, headers) {
    var q = search.value.trim().toLowerCase();
    if (!q) return true;
    var cols = [cfg.search_columns.primary_column].concat(cfg.search_columns.secondary_columns || []);
    return cols.some(function (c) {
      var i = headers.indexOf(c);
      return i >= 0 && String(row[i]).toLowerCase().indexOf(q) >= 0;
    });
  }

  function render(value) {
    var el = document.getElementById("table");
    var hidden = cfg.hide_columns || [];
    var shown = cfg.select_columns.default_selection || value.headers;
    var meta = value.metadata || {};
    var html = "<table><thead><tr>";
    var keep = [];
    value.headers.forEach(function (h, i) {
      if (hidden.indexOf(h) < 0 && shown.indexOf(h) >= 0) { keep.push(i); html += "<th>" + esc(h) + "</th>"; }
    });
    html += "</tr></thead><tbody>";
    value.data.forEach(function (row, r) {
      if (row.length === 0 || !matches(row, value.headers)) return;
      html += "<tr>";
      keep.forEach(function (i) {
        var text = meta.display_value ? meta.display_value[r][i] : row[i];
        var style = meta.styling ? meta.styling[r][i] : "";
        html += "<td style=\"" + esc(style) + "\">" + esc(text) + "</td>";
      });
      html += "</tr>";
    });
    el.innerHTML = html + "</tbody></table>";
  }

  function esc(v) {
    return String(v === null || v === undefined ? "" : v).replace(/[&<>"]/g, function (c) {
      return { "&": "&amp;", "<": "&lt;", ">": "&gt;", "\"": "&quot;" }[c];
    });
  }

  var current = cfg.value;
  search.addEventListener("input", function () { render(current); });
  render(current);

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type !== "value") return;
    fetch("/api/value").then(function (r) { return r.json(); }).then(function (v) { current = v; render(v); });
  };
})();
`
