package msgs

import (
	"github.com/golang/protobuf/proto"
)

// Message is a telemetry message.
type Message interface {
	proto.Message
	TypeID() uint32
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// TypeID Groups
const (
	GroupTelemetry uint32 = 0x00100000
)

// TypeIDs
const (
	SensorFrameTypeID  uint32 = TypeIDKindEvent | GroupTelemetry | 0x0001
	ConfigUpdateTypeID uint32 = TypeIDKindEvent | GroupTelemetry | 0x0002
	RunStateTypeID     uint32 = TypeIDKindEvent | GroupTelemetry | 0x0003
	LinkStatusTypeID   uint32 = TypeIDKindEvent | GroupTelemetry | 0x0004
	TextLineTypeID     uint32 = TypeIDKindEvent | GroupTelemetry | 0x0005
)

// SensorFrame is a decoded sensor frame.
type SensorFrame struct {
	Raw []byte `protobuf:"bytes,1,opt,name=raw,proto3" json:"raw,omitempty"`
	// Bits has bit n set when sensor n is active.
	Bits        uint32 `protobuf:"varint,2,opt,name=bits,proto3" json:"bits,omitempty"`
	ElapsedMs   int64  `protobuf:"varint,3,opt,name=elapsed_ms,json=elapsedMs,proto3" json:"elapsed_ms,omitempty"`
	TimestampMs int64  `protobuf:"varint,4,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
}

// Reset implements proto.Message.
func (m *SensorFrame) Reset() { *m = SensorFrame{} }

// String implements proto.Message.
func (m *SensorFrame) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*SensorFrame) ProtoMessage() {}

// TypeID implements Message.
func (*SensorFrame) TypeID() uint32 { return SensorFrameTypeID }

// NewMessage implements Message.
func (*SensorFrame) NewMessage() Message { return &SensorFrame{} }

// ConfigUpdate is a configuration value reported by the robot.
type ConfigUpdate struct {
	Key         string `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
	Raw         uint32 `protobuf:"varint,2,opt,name=raw,proto3" json:"raw,omitempty"`
	Value       int32  `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
	Display     string `protobuf:"bytes,4,opt,name=display,proto3" json:"display,omitempty"`
	TimestampMs int64  `protobuf:"varint,5,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
}

// Reset implements proto.Message.
func (m *ConfigUpdate) Reset() { *m = ConfigUpdate{} }

// String implements proto.Message.
func (m *ConfigUpdate) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ConfigUpdate) ProtoMessage() {}

// TypeID implements Message.
func (*ConfigUpdate) TypeID() uint32 { return ConfigUpdateTypeID }

// NewMessage implements Message.
func (*ConfigUpdate) NewMessage() Message { return &ConfigUpdate{} }

// RunState is a change of the robot run state.
type RunState struct {
	State       uint32 `protobuf:"varint,1,opt,name=state,proto3" json:"state,omitempty"`
	Name        string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Running     bool   `protobuf:"varint,3,opt,name=running,proto3" json:"running,omitempty"`
	TimestampMs int64  `protobuf:"varint,4,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
}

// Reset implements proto.Message.
func (m *RunState) Reset() { *m = RunState{} }

// String implements proto.Message.
func (m *RunState) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*RunState) ProtoMessage() {}

// TypeID implements Message.
func (*RunState) TypeID() uint32 { return RunStateTypeID }

// NewMessage implements Message.
func (*RunState) NewMessage() Message { return &RunState{} }

// LinkStatus is a change of the serial link.
type LinkStatus struct {
	Port        string `protobuf:"bytes,1,opt,name=port,proto3" json:"port,omitempty"`
	Connected   bool   `protobuf:"varint,2,opt,name=connected,proto3" json:"connected,omitempty"`
	Error       string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	TimestampMs int64  `protobuf:"varint,4,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
}

// Reset implements proto.Message.
func (m *LinkStatus) Reset() { *m = LinkStatus{} }

// String implements proto.Message.
func (m *LinkStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*LinkStatus) ProtoMessage() {}

// TypeID implements Message.
func (*LinkStatus) TypeID() uint32 { return LinkStatusTypeID }

// NewMessage implements Message.
func (*LinkStatus) NewMessage() Message { return &LinkStatus{} }

// TextLine is a text line without known tag.
type TextLine struct {
	Text        string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
	TimestampMs int64  `protobuf:"varint,2,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
}

// Reset implements proto.Message.
func (m *TextLine) Reset() { *m = TextLine{} }

// String implements proto.Message.
func (m *TextLine) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*TextLine) ProtoMessage() {}

// TypeID implements Message.
func (*TextLine) TypeID() uint32 { return TextLineTypeID }

// NewMessage implements Message.
func (*TextLine) NewMessage() Message { return &TextLine{} }
