package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WidgetDemo serves a small self-contained page for exercising /api/classes
// without integrating the widget into a site first.
func (handlers *Handlers) WidgetDemo(context *gin.Context) {
	context.Data(http.StatusOK, "text/html; charset=utf-8", []byte(widgetPage))
}

const widgetPage = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Schedule Widget Demo</title>
    <style>
      body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial; margin: 24px; }
      .wrap { max-width: 920px; }
      .row { display: flex; gap: 12px; flex-wrap: wrap; align-items: end; }
      label { display:block; font-size: 12px; opacity: .8; margin-bottom: 6px; }
      input { padding: 8px 10px; border: 1px solid #ddd; border-radius: 8px; }
      button { padding: 9px 12px; border: 0; border-radius: 10px; background: #111; color: #fff; cursor: pointer;}
      pre { background: #0b1020; color: #e5e7eb; padding: 12px; border-radius: 12px; overflow:auto; }
    </style>
  </head>
  <body>
    <div class="wrap">
      <h2>Schedule widget (demo)</h2>
      <div class="row">
        <div>
          <label>start_date (yyyy-mm-dd HH:MM)</label>
          <input id="s" value="2025-01-01 00:00" />
        </div>
        <div>
          <label>end_date (yyyy-mm-dd HH:MM)</label>
          <input id="e" value="2025-01-07 23:59" />
        </div>
        <button id="btn">Load</button>
      </div>
      <div style="height:12px"></div>
      <pre id="out">Press "Load"</pre>
    </div>
    <script>
      const out = document.getElementById('out');
      document.getElementById('btn').addEventListener('click', async () => {
        out.textContent = 'Loading...';
        const start = document.getElementById('s').value;
        const end = document.getElementById('e').value;
        const url = '/api/classes?start_date=' + encodeURIComponent(start) + '&end_date=' + encodeURIComponent(end);
        const r = await fetch(url, { headers: { 'Accept': 'application/json' }});
        const txt = await r.text();
        out.textContent = txt;
      });
    </script>
  </body>
</html>`
