package http

import (
	"github.com/gofiber/fiber/v2"
)

// Index func - Serves a minimal chat page for manual testing
func (hdl *HTTPHandler) Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(indexPage)
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>AI Chat</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
#log { border: 1px solid #ccc; padding: 1em; min-height: 300px; white-space: pre-wrap; }
.thinking { color: #888; font-style: italic; }
input, button { font-size: 1em; padding: 0.4em; }
#message { width: 70%; }
</style>
</head>
<body>
<h1>AI Chat</h1>
<p>Paste an access token, pick a conversation id and chat. Events stream below.</p>
<div>
<input id="token" placeholder="access token">
<input id="conversation" placeholder="conversation id" size="8">
</div>
<div id="log"></div>
<div>
<input id="message" placeholder="message">
<button onclick="send()">Send</button>
</div>
<script>
async function send() {
  const log = document.getElementById('log');
  const body = {
    conversation_id: parseInt(document.getElementById('conversation').value, 10),
    message: document.getElementById('message').value,
    message_type: 'text'
  };
  const resp = await fetch('/v1/api/chat', {
    method: 'POST',
    headers: {
      'Content-Type': 'application/json',
      'Authorization': 'Bearer ' + document.getElementById('token').value
    },
    body: JSON.stringify(body)
  });
  const reader = resp.body.getReader();
  const decoder = new TextDecoder();
  let buffer = '';
  for (;;) {
    const { done, value } = await reader.read();
    if (done) break;
    buffer += decoder.decode(value, { stream: true });
    let idx;
    while ((idx = buffer.indexOf('\n\n')) >= 0) {
      const frame = buffer.slice(0, idx);
      buffer = buffer.slice(idx + 2);
      if (!frame.startsWith('data: ')) continue;
      const event = JSON.parse(frame.slice(6));
      handle(event, log);
    }
  }
}
function handle(event, log) {
  switch (event.type) {
    case 'user_message':
      log.textContent += '\n> ' + event.data.content + '\n';
      break;
    case 'thinking_process': {
      const span = document.createElement('span');
      span.className = 'thinking';
      span.textContent = event.data;
      log.appendChild(span);
      break;
    }
    case 'text_message_delta':
      log.textContent += event.data;
      break;
    case 'error':
      log.textContent += '\n[error] ' + event.data + '\n';
      break;
  }
  log.scrollTop = log.scrollHeight;
}
</script>
</body>
</html>`
