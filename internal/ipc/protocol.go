package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/overlay"
)

// Message types carried in the "type" field of every envelope.
const (
	TypeCommand  = "command"
	TypeStatus   = "status"
	TypeResponse = "status_response"
	TypeError    = "error"
)

// maxMessageSize bounds a single frame.
const maxMessageSize = 1 << 20

// ErrMessageTooLarge is returned for frames above the size limit.
var ErrMessageTooLarge = errors.New("ipc message too large")

// SurfaceInfo describes one surface in a status response.
type SurfaceInfo struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Width   int64   `json:"width"`
	Height  int64   `json:"height"`
	Scale   float64 `json:"scale"`
	Strokes int64   `json:"strokes"`
	Undone  int64   `json:"undone"`
	Failed  bool    `json:"failed,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// StatusInfo is the wire form of an overlay status snapshot.
type StatusInfo struct {
	Visible       bool          `json:"visible"`
	Paused        bool          `json:"paused"`
	Color         string        `json:"color"`
	Width         float64       `json:"width"`
	EraserEnabled bool          `json:"eraser_enabled"`
	EraserMode    string        `json:"eraser_mode"`
	Tool          string        `json:"tool"`
	Active        string        `json:"active,omitempty"`
	Surfaces      []SurfaceInfo `json:"surfaces"`
}

// StatusFromOverlay converts a snapshot for the wire.
func StatusFromOverlay(st overlay.Status) *StatusInfo {
	info := &StatusInfo{
		Visible:       st.Visible,
		Paused:        st.Settings.Paused,
		Color:         ink.ColorName(st.Settings.Color),
		Width:         st.Settings.Width,
		EraserEnabled: st.Settings.EraserEnabled,
		EraserMode:    st.Settings.EraserMode.String(),
		Tool:          st.Settings.Tool(),
		Active:        st.Active,
	}
	for _, s := range st.Surfaces {
		info.Surfaces = append(info.Surfaces, SurfaceInfo{
			ID:      s.ID,
			Name:    s.Name,
			Width:   int64(s.Width),
			Height:  int64(s.Height),
			Scale:   s.Scale,
			Strokes: int64(s.Strokes),
			Undone:  int64(s.Undone),
			Failed:  s.Failed,
			Error:   s.Error,
		})
	}
	return info
}

// NewCommandMessage creates a tool command message
func NewCommandMessage(action, arg string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"type":   TypeCommand,
		"action": action,
		"arg":    arg,
	})
}

// NewStatusMessage creates a new status query message
func NewStatusMessage() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"type": TypeStatus})
}

// NewStatusResponseMessage creates a status response message
func NewStatusResponseMessage(info *StatusInfo) (*structpb.Struct, error) {
	surfaces := make([]any, 0, len(info.Surfaces))
	for _, s := range info.Surfaces {
		surfaces = append(surfaces, map[string]any{
			"id":      s.ID,
			"name":    s.Name,
			"width":   s.Width,
			"height":  s.Height,
			"scale":   s.Scale,
			"strokes": s.Strokes,
			"undone":  s.Undone,
			"failed":  s.Failed,
			"error":   s.Error,
		})
	}
	return structpb.NewStruct(map[string]any{
		"type": TypeResponse,
		"status": map[string]any{
			"visible":        info.Visible,
			"paused":         info.Paused,
			"color":          info.Color,
			"width":          info.Width,
			"eraser_enabled": info.EraserEnabled,
			"eraser_mode":    info.EraserMode,
			"tool":           info.Tool,
			"active":         info.Active,
			"surfaces":       surfaces,
		},
	})
}

// NewErrorMessage creates a new error message
func NewErrorMessage(errMsg string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"type":  TypeError,
		"error": errMsg,
	})
}

// MessageType returns the envelope type.
func MessageType(msg *structpb.Struct) string {
	return msg.GetFields()["type"].GetStringValue()
}

// GetCommand extracts the action and argument of a command message
func GetCommand(msg *structpb.Struct) (action, arg string, err error) {
	if MessageType(msg) != TypeCommand {
		return "", "", fmt.Errorf("message is not a command")
	}
	fields := msg.GetFields()
	action = fields["action"].GetStringValue()
	if action == "" {
		return "", "", fmt.Errorf("command has no action")
	}
	return action, fields["arg"].GetStringValue(), nil
}

// GetStatusResponse extracts status response from message
func GetStatusResponse(msg *structpb.Struct) (*StatusInfo, error) {
	if MessageType(msg) != TypeResponse {
		return nil, fmt.Errorf("message is not a status response")
	}
	st := msg.GetFields()["status"].GetStructValue()
	if st == nil {
		return nil, fmt.Errorf("invalid status response payload")
	}

	f := st.GetFields()
	info := &StatusInfo{
		Visible:       f["visible"].GetBoolValue(),
		Paused:        f["paused"].GetBoolValue(),
		Color:         f["color"].GetStringValue(),
		Width:         f["width"].GetNumberValue(),
		EraserEnabled: f["eraser_enabled"].GetBoolValue(),
		EraserMode:    f["eraser_mode"].GetStringValue(),
		Tool:          f["tool"].GetStringValue(),
		Active:        f["active"].GetStringValue(),
	}
	for _, v := range f["surfaces"].GetListValue().GetValues() {
		s := v.GetStructValue().GetFields()
		info.Surfaces = append(info.Surfaces, SurfaceInfo{
			ID:      s["id"].GetStringValue(),
			Name:    s["name"].GetStringValue(),
			Width:   int64(s["width"].GetNumberValue()),
			Height:  int64(s["height"].GetNumberValue()),
			Scale:   s["scale"].GetNumberValue(),
			Strokes: int64(s["strokes"].GetNumberValue()),
			Undone:  int64(s["undone"].GetNumberValue()),
			Failed:  s["failed"].GetBoolValue(),
			Error:   s["error"].GetStringValue(),
		})
	}
	return info, nil
}

// GetErrorResponse extracts the error text from an error message
func GetErrorResponse(msg *structpb.Struct) (string, error) {
	if MessageType(msg) != TypeError {
		return "", fmt.Errorf("message is not an error response")
	}
	return msg.GetFields()["error"].GetStringValue(), nil
}

// readMessage reads a length-prefixed protobuf message
func readMessage(r io.Reader) (*structpb.Struct, error) {
	// Read message length (4 bytes, big endian)
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read message length: %w", err)
	}
	if length > maxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read message data: %w", err)
	}

	msg := &structpb.Struct{}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return msg, nil
}

// writeMessage writes a length-prefixed protobuf message
func writeMessage(w io.Writer, msg *structpb.Struct) error {
	data, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if len(data) > maxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}

	length := uint32(len(data)) //nolint:gosec // bounded by maxMessageSize
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write message data: %w", err)
	}
	return nil
}
