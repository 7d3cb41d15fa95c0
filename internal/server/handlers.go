// Package server exposes HTTP handlers, including the WebSocket upgrade,
// health check, and the built-in test page.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// WebSocketHandler handles WebSocket upgrade requests. It validates that the
// request uses the GET method, upgrades the HTTP connection, and hands the
// new connection to the hub, which assigns its identity and starts the pumps.
func WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(conn, hub, r.RemoteAddr)
	client.hub.register <- client
}

// HealthHandler provides a simple health check endpoint that returns server
// status as plain text.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "ChatFlux relay is running!")
}

// TestPageHandler serves an HTML page for exercising the relay protocol from
// a browser: it connects, shows the assigned identity, and lets you issue
// raw JOIN/LEAVE/MSG/PING envelopes and watch the traffic.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	html := `<!DOCTYPE html>
<html>
<head>
    <title>ChatFlux Protocol Test</title>
    <style>
        body { font-family: monospace; margin: 20px; }
        #log {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        input[type="text"] { width: 400px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; }
        .out { color: blue; }
        .in { color: green; }
        .info { color: gray; }
    </style>
</head>
<body>
    <h1>ChatFlux Protocol Test</h1>
    <div>Identity: <span id="ident">(not connected)</span></div>
    <div>
        <input type="text" id="frame" placeholder='[1, "JOIN", null]'>
        <button onclick="sendFrame()">Send</button>
        <button id="connectButton" onclick="toggleConnection()">Connect</button>
    </div>
    <div id="log"></div>

    <script>
        let ws = null;
        let seq = 1;
        const logDiv = document.getElementById('log');

        function addLine(text, cls) {
            const line = document.createElement('div');
            line.className = cls;
            line.textContent = text;
            logDiv.appendChild(line);
            logDiv.scrollTop = logDiv.scrollHeight;
        }

        function connect() {
            ws = new WebSocket('ws://' + location.host + '/ws');
            ws.onopen = function () {
                addLine('connected', 'info');
                document.getElementById('connectButton').textContent = 'Disconnect';
            };
            ws.onmessage = function (event) {
                addLine('< ' + event.data, 'in');
                const msg = JSON.parse(event.data);
                if (msg[0] === 0 && msg[1] === 'IDENT') {
                    document.getElementById('ident').textContent = msg[2];
                }
            };
            ws.onclose = function () {
                addLine('disconnected', 'info');
                document.getElementById('ident').textContent = '(not connected)';
                document.getElementById('connectButton').textContent = 'Connect';
                ws = null;
            };
        }

        function toggleConnection() {
            if (ws && ws.readyState === WebSocket.OPEN) { ws.close(); } else { connect(); }
        }

        function sendFrame() {
            const raw = document.getElementById('frame').value.trim();
            if (raw && ws && ws.readyState === WebSocket.OPEN) {
                ws.send(raw);
                addLine('> ' + raw, 'out');
                seq++;
            }
        }

        document.getElementById('frame').addEventListener('keypress', function (e) {
            if (e.key === 'Enter') { sendFrame(); }
        });
    </script>
</body>
</html>`
	if _, err := fmt.Fprint(w, html); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}
