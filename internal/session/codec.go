// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session

import (
	"encoding/json"

	"github.com/samber/oops"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec converts session data to and from the stored blob.
//
// Values must be JSON-like: strings, booleans, nil, numbers, slices and
// maps of those. Numbers decode as float64 with both codecs.
type Codec interface {
	Encode(data map[string]any) ([]byte, error)
	Decode(blob []byte) (map[string]any, error)
}

// Codec names accepted by CodecByName.
const (
	CodecProto = "proto"
	CodecJSON  = "json"
)

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case CodecProto, "":
		return ProtoCodec{}, nil
	case CodecJSON:
		return JSONCodec{}, nil
	default:
		return nil, oops.Code("UNKNOWN_CODEC").
			With("codec", name).
			Errorf("unknown session codec %q", name)
	}
}

// ProtoCodec stores data as a serialized google.protobuf.Struct.
type ProtoCodec struct{}

// Encode implements Codec.
func (ProtoCodec) Encode(data map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(data)
	if err != nil {
		return nil, oops.Code("SESSION_ENCODE_FAILED").With("codec", CodecProto).Wrap(err)
	}
	blob, err := proto.Marshal(s)
	if err != nil {
		return nil, oops.Code("SESSION_ENCODE_FAILED").With("codec", CodecProto).Wrap(err)
	}
	if blob == nil {
		// data column is NOT NULL
		blob = []byte{}
	}
	return blob, nil
}

// Decode implements Codec. An empty blob decodes to empty data.
func (ProtoCodec) Decode(blob []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(blob, &s); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").With("codec", CodecProto).Wrap(err)
	}
	return s.AsMap(), nil
}

// JSONCodec stores data as a JSON object.
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, oops.Code("SESSION_ENCODE_FAILED").With("codec", CodecJSON).Wrap(err)
	}
	return blob, nil
}

// Decode implements Codec. An empty blob decodes to empty data.
func (JSONCodec) Decode(blob []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(blob) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").With("codec", CodecJSON).Wrap(err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
