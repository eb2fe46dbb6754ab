package tonwallet

type ErrorCode string

const (
	CodeInvalidKeyMaterial ErrorCode = "invalid_key_material"
	CodeInvalidMnemonic    ErrorCode = "invalid_mnemonic"
	CodeCellOverflow       ErrorCode = "cell_overflow"
	CodeBuildFailed        ErrorCode = "transfer_build_failed"
	CodeSerializeFailed    ErrorCode = "boc_serialize_failed"
)

type WalletError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *WalletError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *WalletError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func wrapWalletError(code ErrorCode, message string, cause error) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
