package contract

import (
	"fmt"

	"github.com/evmquery/evmquery/abi"
)

// DecodeResponse decodes the first want outputs from the return data of a call. Asking for
// more values than the function declares fails with abi.ErrArityMismatch. Trailing data past
// the requested values is ignored.
func DecodeResponse(outputs []abi.Type, data []byte, want int) ([]abi.Value, error) {
	if want < 0 || want > len(outputs) {
		return nil, &abi.DecodeError{
			Type:   "outputs",
			Err:    abi.ErrArityMismatch,
			Detail: fmt.Sprintf("want %d values, function returns %d", want, len(outputs)),
		}
	}
	values := make([]abi.Value, want)
	offset := 0
	for i := 0; i < want; i++ {
		var err error
		values[i], offset, err = abi.Decode(outputs[i], data, offset)
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}
