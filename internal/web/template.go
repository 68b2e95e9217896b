package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/timebox/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"lockClass": func(s string) string {
		switch s {
		case "LOCKED":
			return "locked"
		case "UNLOCKED":
			return "unlocked"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Timebox</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.locked { color: red; font-weight: bold; }
.unlocked { color: green; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.countdown { font-size: 3em; letter-spacing: 0.1em; }
</style>
</head>
<body>
<h1>Timebox</h1>

<h2>Lock</h2>
<p class="countdown" id="remaining">{{printf "%02d" .RemainingMinutes}}</p>
<table>
<tr><th>State</th><td id="lock-state" class="{{lockClass (printf "%s" .State)}}">{{.State}}</td></tr>
<tr><th>Remaining</th><td><span id="remaining-row">{{.RemainingMinutes}}</span> min</td></tr>
<tr><th>Lock duration</th><td>{{.ConfiguredMinutes}} min</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Locks</th><td>{{.Counts.Locks}}</td></tr>
<tr><th>Unlocks</th><td>{{.Counts.Unlocks}}</td></tr>
<tr><th>Minute ticks</th><td>{{.Counts.MinuteTicks}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Storage</th><td>{{.Config.StoragePath}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var lockEl = document.getElementById("lock-state");
  var bigEl = document.getElementById("remaining");
  var rowEl = document.getElementById("remaining-row");

  function refresh() {
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(msg) {
      var st = msg.status;
      lockEl.textContent = st.lock;
      lockEl.className = st.lock === "LOCKED" ? "locked" : st.lock === "UNLOCKED" ? "unlocked" : "unknown";
      var mins = st.remaining_minutes;
      bigEl.textContent = (mins < 10 ? "0" : "") + mins;
      rowEl.textContent = mins;
    }).catch(function() {});
  }

  setInterval(refresh, 2000);
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
