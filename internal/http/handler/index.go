package handler

import "github.com/gofiber/fiber/v2"

// Index serves the single-page study assistant UI. The page talks to the
// JSON API; the session cookie set on upload keeps the loaded document
// bound to this browser.
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(indexPage)
	}
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Study Assistant</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #222; }
    h1 { font-size: 1.4rem; }
    fieldset { border: 1px solid #ccc; border-radius: 6px; margin-bottom: 1rem; }
    textarea, input[type=text] { width: 100%; box-sizing: border-box; }
    #result, #history-list { white-space: pre-wrap; background: #f7f7f7; border-radius: 6px; padding: 1rem; }
    .error { color: #b00020; }
    .muted { color: #666; font-size: 0.85rem; }
    button { cursor: pointer; }
  </style>
</head>
<body>
  <h1>Study Assistant</h1>

  <fieldset>
    <legend>1. Upload a textbook (PDF)</legend>
    <input type="file" id="file" accept="application/pdf" />
    <button id="upload">Upload</button>
    <div id="upload-status" class="muted"></div>
  </fieldset>

  <fieldset>
    <legend>2. Generate</legend>
    <label><input type="radio" name="mode" value="simplify" checked /> Simplify</label>
    <label><input type="radio" name="mode" value="full_theory" /> Full theory</label>
    <label><input type="radio" name="mode" value="examples" /> Real-world examples</label>
    <label><input type="radio" name="mode" value="qa" /> Question &amp; answer</label>
    <div id="question-row" hidden>
      <textarea id="question" rows="2" placeholder="Ask a question about the uploaded textbook"></textarea>
    </div>
    <button id="submit">Submit</button>
    <div id="result"></div>
  </fieldset>

  <fieldset id="history-box">
    <legend>Past questions</legend>
    <input type="text" id="history-q" placeholder="Search past Q&amp;A" />
    <button id="history-search">Search</button>
    <div id="history-list"></div>
  </fieldset>

  <script>
    const $ = (id) => document.getElementById(id);
    const mode = () => document.querySelector('input[name=mode]:checked').value;

    document.querySelectorAll('input[name=mode]').forEach(r =>
      r.addEventListener('change', () => { $('question-row').hidden = mode() !== 'qa'; }));

    async function call(url, opts) {
      const resp = await fetch(url, opts);
      const body = await resp.json();
      if (!resp.ok) throw new Error(body.error ? body.error.message : 'request failed');
      return body;
    }

    $('upload').addEventListener('click', async () => {
      const f = $('file').files[0];
      if (!f) { $('upload-status').textContent = 'choose a file first'; return; }
      const fd = new FormData();
      fd.append('file', f);
      $('upload-status').textContent = 'extracting...';
      try {
        const res = await call('/documents', { method: 'POST', body: fd });
        $('upload-status').textContent = res.filename + ': ' + res.pages + ' pages, ' + res.characters + ' characters';
      } catch (e) {
        $('upload-status').textContent = e.message;
        $('upload-status').className = 'error';
      }
    });

    $('submit').addEventListener('click', async () => {
      $('result').textContent = 'generating...';
      $('result').className = '';
      try {
        const res = await call('/generate', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ mode: mode(), question: $('question').value })
        });
        $('result').textContent = res.answer;
      } catch (e) {
        $('result').textContent = e.message;
        $('result').className = 'error';
      }
    });

    $('history-search').addEventListener('click', async () => {
      try {
        const res = await call('/history?q=' + encodeURIComponent($('history-q').value));
        $('history-list').textContent = res.total === 0 ? 'no matches' :
          res.data.map(r => 'Q: ' + r.question + '\nA: ' + r.answer).join('\n\n');
      } catch (e) {
        $('history-list').textContent = e.message;
        $('history-list').className = 'error';
      }
    });
  </script>
</body>
</html>`
