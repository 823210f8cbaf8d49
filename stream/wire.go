// Package stream broadcasts simulation frames to websocket clients and
// accepts behavior selections from them. Messages use the protobuf wire
// format:
//
//	Frame         { 1: tick uint64, 2: repeated AgentState }
//	AgentState    { 1: slot uint32, 2: name string, 3: x double, 4: z double,
//	                5: orientation double, 6: speed double, 7: behavior string }
//	SelectRequest { 1: slot uint32, 2: behavior string }
package stream

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned when a message cannot be decoded.
var ErrMalformed = errors.New("stream: malformed message")

// AgentState is one agent's state within a frame.
type AgentState struct {
	Slot        uint32
	Name        string
	X, Z        float64
	Orientation float64
	Speed       float64
	Behavior    string
}

// Frame is the state of every agent after a tick.
type Frame struct {
	Tick   uint64
	Agents []AgentState
}

// SelectRequest asks for an agent's active behavior to change.
type SelectRequest struct {
	Slot     uint32
	Behavior string
}

// Field numbers.
const (
	frameTick   protowire.Number = 1
	frameAgents protowire.Number = 2

	agentSlot        protowire.Number = 1
	agentName        protowire.Number = 2
	agentX           protowire.Number = 3
	agentZ           protowire.Number = 4
	agentOrientation protowire.Number = 5
	agentSpeed       protowire.Number = 6
	agentBehavior    protowire.Number = 7

	selectSlot     protowire.Number = 1
	selectBehavior protowire.Number = 2
)

// Marshal encodes the frame.
func (f Frame) Marshal() []byte {
	var b []byte
	if f.Tick != 0 {
		b = protowire.AppendTag(b, frameTick, protowire.VarintType)
		b = protowire.AppendVarint(b, f.Tick)
	}
	for _, a := range f.Agents {
		b = protowire.AppendTag(b, frameAgents, protowire.BytesType)
		b = protowire.AppendBytes(b, a.Marshal())
	}
	return b
}

// Marshal encodes the agent state. Zero values are omitted, as proto3 does.
func (a AgentState) Marshal() []byte {
	var b []byte
	if a.Slot != 0 {
		b = protowire.AppendTag(b, agentSlot, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(a.Slot))
	}
	b = appendString(b, agentName, a.Name)
	b = appendDouble(b, agentX, a.X)
	b = appendDouble(b, agentZ, a.Z)
	b = appendDouble(b, agentOrientation, a.Orientation)
	b = appendDouble(b, agentSpeed, a.Speed)
	b = appendString(b, agentBehavior, a.Behavior)
	return b
}

// Marshal encodes the request.
func (r SelectRequest) Marshal() []byte {
	var b []byte
	if r.Slot != 0 {
		b = protowire.AppendTag(b, selectSlot, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.Slot))
	}
	return appendString(b, selectBehavior, r.Behavior)
}

// UnmarshalFrame decodes a frame. Unknown fields are skipped.
func UnmarshalFrame(b []byte) (Frame, error) {
	var f Frame
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == frameTick && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			f.Tick = v
			return n, nil
		case num == frameAgents && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			a, err := UnmarshalAgentState(v)
			if err != nil {
				return 0, err
			}
			f.Agents = append(f.Agents, a)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return f, err
}

// UnmarshalAgentState decodes an agent state.
func UnmarshalAgentState(b []byte) (AgentState, error) {
	var a AgentState
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == agentSlot && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			a.Slot = uint32(v)
			return n, nil
		case num == agentName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			a.Name = v
			return n, nil
		case num == agentBehavior && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			a.Behavior = v
			return n, nil
		case typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			d := math.Float64frombits(v)
			switch num {
			case agentX:
				a.X = d
			case agentZ:
				a.Z = d
			case agentOrientation:
				a.Orientation = d
			case agentSpeed:
				a.Speed = d
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return a, err
}

// UnmarshalSelectRequest decodes a selection request.
func UnmarshalSelectRequest(b []byte) (SelectRequest, error) {
	var r SelectRequest
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == selectSlot && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			r.Slot = uint32(v)
			return n, nil
		case num == selectBehavior && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			r.Behavior = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return r, err
}

// consumeFields walks b field by field. field consumes one value and
// returns its length, negative on a wire error.
func consumeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 && !math.Signbit(v) {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}
