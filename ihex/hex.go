// Package ihex provides tools for parsing and emitting the Intel HEX file
// format against a memory.Segment, rather than the contiguous-file
// abstraction the format was originally designed for.
package ihex

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/binaryblade/mu51/memory"
)

// record did not contain the minimum of 11 bytes on the line
// there is not point in parsing further
var ErrInsufficentRecordLength = errors.New("record of insufficient length")

// did not find a colon as the first character on the line
var ErrNoStartCode = errors.New("line not prefixed with start code ':'")

// decoding the hex string resulted in an abnormal length byte slice
var ErrUnexpectedDecodeLength = errors.New("decoded hex string at unexpected length")

// line checksum did not match that present in record
var ErrChecksum = errors.New("checksum invalid")

// file did not include an EOF record
var ErrNoEOF = errors.New("failed to locate EOF record")

// EOF record found on line other than the last line
var ErrUnexpectedEOF = errors.New("encountered EOF on line other than the last")

// There are more bytes in the data record than the length field specified
var ErrExtraBytes = errors.New("record contained extra data bytes")

// record type specifies a fixed length data block, the actual length disagrees
var ErrIncorrectDataLength = errors.New("incorrect data field length for type")

// data type is not one of the 3 recognized types
var ErrUnknownDataType = errors.New("unrecognized data type")

// ParseError is returned from Load for errors tied to one record; a
// stream with no final EOF record fails with the bare ErrNoEOF instead.
// Err contains the underlying reason for the error
// Line contains the line number where the error occurred
type ParseError struct {
	Line int
	Err  error
}

func (p ParseError) Error() string {
	return fmt.Sprintf("parse error encountered on line %d: %s", p.Line, p.Err.Error())
}

// Type is an Enum of the supported kinds of intel hex records. The ROM
// this package serves is 4KB, so only the record types that matter within
// a 16-bit address space are kept; x86 segmented/linear addressing record
// types (SSA/ELA/SLA) have no meaning for this address space.
type Type uint8

const (
	// Data indicates Record is of general data type, this is the data which will be present in memory
	Data Type = iota

	// EoF indicates Record is End of File, there should only be one of these
	// and it should be the last line
	EoF

	// ESA indicates Record is of Extended Segment Address, data portion*16 specifies the offset
	// to add to all future data records
	ESA
)

type header struct {
	Count   uint8
	Address uint16
	Type    Type
}

type rawRecord struct {
	Header header
	Data   []byte
}

func parseRecord(r io.Reader) (rawRecord, error) {
	var ret rawRecord
	err := binary.Read(r, binary.BigEndian, &ret.Header)
	if err != nil {
		return ret, err
	}
	ret.Data = make([]byte, ret.Header.Count)
	err = binary.Read(r, binary.BigEndian, &ret.Data)
	return ret, err
}

func parseRecordLine(bs []byte) (rawRecord, error) {
	if len(bs) < 11 { // minimum line size including start code
		return rawRecord{}, ErrInsufficentRecordLength
	}

	if bs[0] != ':' { // records all start with a colon
		return rawRecord{}, ErrNoStartCode
	}

	var length = hex.DecodedLen(len(bs[1:]))
	var decoded = make([]byte, length)
	n, err := hex.Decode(decoded, bs[1:]) // parse the hex values into a parsed byte slice
	if err != nil {
		return rawRecord{}, err
	}

	if n != length {
		return rawRecord{}, ErrUnexpectedDecodeLength
	}
	var sum int8 // confirm the checksum
	for _, v := range decoded {
		sum += int8(v)
	}
	if sum != 0 {
		return rawRecord{}, ErrChecksum
	}

	rdr := bytes.NewReader(decoded[:len(decoded)-1]) // convert new byte slice to reader
	r, err := parseRecord(rdr)
	if err != nil {
		return rawRecord{}, err
	}
	if rdr.Len() != 0 { // check that all the data was consumed
		return rawRecord{}, ErrExtraBytes
	}
	return r, nil
}

func parseHexFileRecords(r io.Reader) ([]rawRecord, error) {
	var ret []rawRecord
	scn := bufio.NewScanner(r)

	i := 0
	for scn.Scan() {
		i++
		r, err := parseRecordLine(scn.Bytes())
		if err != nil {
			return nil, ParseError{Line: i, Err: err}
		}
		ret = append(ret, r)
	}
	if scn.Err() != nil {
		return nil, scn.Err()
	}

	if len(ret) == 0 {
		return nil, ErrNoEOF
	}

	for i, v := range ret[:len(ret)-1] {
		if v.Header.Type == EoF {
			return nil, ParseError{Line: i + 1, Err: ErrUnexpectedEOF}
		}
	}

	if ret[len(ret)-1].Header.Type != EoF {
		return nil, ErrNoEOF
	}

	return ret[:len(ret)-1], nil // strip the EOF record because not needed anymore
}

// Load parses an Intel HEX stream and writes every data record directly
// into seg, range-checked against seg's configured bounds.
func Load(r io.Reader, seg *memory.Segment) error {
	rs, err := parseHexFileRecords(r)
	if err != nil {
		return err
	}
	var offset uint32
	for idx, v := range rs {
		i := idx + 1 // record idx sits on line idx+1
		switch v.Header.Type {
		case Data:
			base := offset + uint32(v.Header.Address)
			for j, b := range v.Data {
				if err := seg.Write(int(base)+j, b); err != nil {
					return ParseError{Line: i, Err: err}
				}
			}
		case EoF:
			return ParseError{Line: i, Err: errors.New("unexpected EOF record mid-stream")}
		case ESA:
			if v.Header.Count != 2 {
				return ParseError{Line: i, Err: ErrIncorrectDataLength}
			}
			var temp uint16
			if err := binary.Read(bytes.NewReader(v.Data), binary.BigEndian, &temp); err != nil {
				return ParseError{Line: i, Err: err}
			}
			offset = uint32(temp) * 16
		default:
			return ParseError{Line: i, Err: ErrUnknownDataType}
		}
	}
	return nil
}

// recordBytes is the number of data bytes Dump packs per line, matching
// the common 16-byte-per-record convention most Intel HEX tooling emits.
const recordBytes = 16

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return byte(-int8(sum))
}

func writeRecord(w io.Writer, addr uint16, rtype Type, data []byte) error {
	body := make([]byte, 0, 4+len(data))
	body = append(body, byte(len(data)), byte(addr>>8), byte(addr), byte(rtype))
	body = append(body, data...)
	body = append(body, checksum(body))
	_, err := fmt.Fprintf(w, ":%s\n", strings.ToUpper(hex.EncodeToString(body)))
	return err
}

// Dump encodes every materialised cell of seg as Intel HEX data records,
// in ascending address order, followed by the terminating EOF record,
// using the same record layout parseRecordLine/parseRecord decode.
func Dump(w io.Writer, seg *memory.Segment) error {
	cells := seg.Sorted()
	for i := 0; i < len(cells); {
		start := i
		addr := cells[start].Addr
		data := make([]byte, 0, recordBytes)
		for i < len(cells) && len(data) < recordBytes && cells[i].Addr == addr+len(data) {
			data = append(data, cells[i].Value)
			i++
		}
		if err := writeRecord(w, uint16(addr), Data, data); err != nil {
			return err
		}
	}
	return writeRecord(w, 0, EoF, nil)
}
