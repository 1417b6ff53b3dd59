/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

const GpuHealthPrefix = "GpuHealth."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] 00: general, 01: scan-level (abort the run), 02: record-level (recovered)
*/

// general: 00xxx
const (
	InternalError = GpuHealthPrefix + "00001"
	InvalidConfig = GpuHealthPrefix + "00002"
)

// scan: 01xxx
const (
	SourceUnavailable = GpuHealthPrefix + "01001"
)

// record: 02xxx
const (
	MissingNodeName        = GpuHealthPrefix + "02001"
	MalformedResourceField = GpuHealthPrefix + "02002"
)

func IsSourceUnavailable(err error) bool {
	return HasCode(err, SourceUnavailable)
}

func IsInvalidConfig(err error) bool {
	return HasCode(err, InvalidConfig)
}

// IsRecordLevel returns true for errors that only affect a single inventory record.
func IsRecordLevel(err error) bool {
	return HasCode(err, MissingNodeName) || HasCode(err, MalformedResourceField)
}

func NewSourceUnavailable(err error, message string) *Error {
	return newError(2).WithCode(SourceUnavailable).WithMessage(message).WithError(err)
}

func NewInvalidConfig(message string) *Error {
	return newError(2).WithCode(InvalidConfig).WithMessage(message)
}

func NewInternalError(message string) *Error {
	return newError(2).WithCode(InternalError).WithMessage(message)
}
