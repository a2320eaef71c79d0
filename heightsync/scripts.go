package heightsync

import (
	"bytes"
	"html/template"
)

// RootElementID is the DOM id of the embed document's outer container.
const RootElementID = "ayat-embed-root"

var parentTmpl = template.Must(template.New("parent").Parse(`<script>
(function() {
  var id = {{.ID}};
  window.addEventListener("message", function(event) {
    var data = event && event.data;
    if (!data || data.type !== {{.Type}} || data.id !== id) return;
    var height = data.height;
    if (typeof height !== "number" || !isFinite(height)) return;
    var iframe = document.getElementById(id);
    if (!iframe) return;
    iframe.style.height = Math.max({{.Min}}, Math.round(height)) + "px";
    iframe.style.overflow = "hidden";
    iframe.setAttribute("scrolling", "no");
  }, false);
})();
</script>`))

var childTmpl = template.Must(template.New("child").Parse(`<script>
(function() {
  var id = {{.ID}};
  if (!id || window.parent === window) return;
  var root = document.getElementById({{.Root}});
  if (!root) return;
  var timers = [];
  var mounted = true;
  function report() {
    if (!mounted) return;
    var rect = root.getBoundingClientRect();
    var height = Math.max(Math.ceil(rect.height), root.scrollHeight);
    window.parent.postMessage({ type: {{.Type}}, id: id, height: height }, "*");
  }
  {{.Delays}}.forEach(function(ms) {
    if (ms <= 0) { report(); return; }
    timers.push(setTimeout(report, ms));
  });
  window.addEventListener("resize", report);
  window.addEventListener("pagehide", function() {
    mounted = false;
    timers.forEach(clearTimeout);
    window.removeEventListener("resize", report);
  });
})();
</script>`))

func execute(t *template.Template, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Inputs are strings and ints; execution cannot fail.
		panic(err)
	}
	return template.HTML(buf.String())
}

// ParentScript returns the listener the host page runs next to the iframe
// whose id is id.
func ParentScript(id string) template.HTML {
	return execute(parentTmpl, struct {
		ID, Type string
		Min      int
	}{id, MessageType, MinHeight})
}

// ChildScript returns the reporter the embed document runs. It does nothing
// when id is empty or the document is not framed.
func ChildScript(id string) template.HTML {
	delays := make([]int64, 0, len(DefaultSchedule))
	for _, d := range DefaultSchedule {
		delays = append(delays, d.Milliseconds())
	}
	return execute(childTmpl, struct {
		ID, Type, Root string
		Delays         []int64
	}{id, MessageType, RootElementID, delays})
}
