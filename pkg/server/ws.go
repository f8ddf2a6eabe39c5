package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/pipeline"
)

// wsReadLimit bounds a single websocket request message.
const wsReadLimit = 4096

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(wsReadLimit)

	ctx := r.Context()
	logger := s.logger.With("id", RequestIDFromContext(ctx))
	logger.Debug("websocket connected", "remote", r.RemoteAddr)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if isNormalClose(err) {
				logger.Debug("websocket closed")
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			logger.Warn("websocket read failed", "err", err)
			conn.Close(websocket.StatusUnsupportedData, "invalid request")
			return
		}

		if err := s.serveWebsocketRequest(ctx, conn, typ, data); err != nil {
			logger.Warn("websocket write failed", "err", err)
			return
		}
	}
}

// serveWebsocketRequest decodes and renders one message, replying with the
// image or an error message. Only transport failures are returned.
func (s *Server) serveWebsocketRequest(ctx context.Context, conn *websocket.Conn, typ websocket.MessageType, data []byte) error {
	req, err := decodeWebsocketRequest(typ, data)
	if err == nil {
		var result *pipeline.Result
		result, err = s.renderWebsocketRequest(ctx, req)
		if err == nil {
			return conn.Write(ctx, websocket.MessageBinary, result.Artifact)
		}
	}
	return wsjson.Write(ctx, conn, newErrorResponse(err))
}

// renderWebsocketRequest runs req under the server's render timeout. The
// connection context is left intact so the reply can still be written.
func (s *Server) renderWebsocketRequest(ctx context.Context, req renderRequest) (*pipeline.Result, error) {
	opts, err := req.options()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.renderTimeout)
	defer cancel()
	return s.execute(ctx, opts)
}

func decodeWebsocketRequest(typ websocket.MessageType, data []byte) (renderRequest, error) {
	var req renderRequest
	if typ != websocket.MessageText {
		return req, errors.New(errors.ErrCodeInvalidInput, "request must be a JSON text message")
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	return req, nil
}

func isNormalClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return stderrors.Is(err, context.Canceled)
}
