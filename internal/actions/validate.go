package actions

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
)

var (
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	amountPattern  = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$`)
	integerPattern = regexp.MustCompile(`^-?[0-9]+$`)
)

// ValidateAddress checks for 0x followed by exactly 40 hex characters.
func ValidateAddress(s string) (common.Address, error) {
	if !addressPattern.MatchString(s) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a base-10 decimal string into base units of a token with
// the given decimals. Extra fractional digits are truncated.
func ParseAmount(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	return v, nil
}

// FormatAmount renders base units as a decimal string without trailing zeros.
func FormatAmount(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	digits := new(big.Int).Abs(v).String()
	if decimals > 0 {
		if len(digits) <= int(decimals) {
			digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
		}
		cut := len(digits) - int(decimals)
		whole, frac := digits[:cut], strings.TrimRight(digits[cut:], "0")
		digits = whole
		if frac != "" {
			digits += "." + frac
		}
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// ParseIntType parses "uintN"/"intN". Bare "uint" and "int" mean 256 bits.
func ParseIntType(typ string) (bits int, signed bool, err error) {
	var rest string
	switch {
	case strings.HasPrefix(typ, "uint"):
		rest = typ[4:]
	case strings.HasPrefix(typ, "int"):
		rest = typ[3:]
		signed = true
	default:
		return 0, false, fmt.Errorf("not an integer type: %q", typ)
	}
	if rest == "" {
		return 256, signed, nil
	}
	bits, err = strconv.Atoi(rest)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, false, fmt.Errorf("invalid integer width in %q", typ)
	}
	return bits, signed, nil
}

// IntBounds returns the inclusive range of an N-bit integer:
// [0, 2^N-1] unsigned and [-2^(N-1), 2^(N-1)-1] signed.
func IntBounds(bits int, signed bool) (lo, hi *big.Int) {
	one := big.NewInt(1)
	if !signed {
		hi = new(big.Int).Lsh(one, uint(bits))
		return new(big.Int), hi.Sub(hi, one)
	}
	half := new(big.Int).Lsh(one, uint(bits-1))
	lo = new(big.Int).Neg(half)
	hi = new(big.Int).Sub(half, one)
	return lo, hi
}

// ValidateInteger parses raw as a base-10 integer and checks it fits typ.
func ValidateInteger(raw, typ string) (*big.Int, error) {
	bits, signed, err := ParseIntType(typ)
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if !integerPattern.MatchString(raw) {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	v, _ := new(big.Int).SetString(raw, 10)
	lo, hi := IntBounds(bits, signed)
	if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%s is out of range for %s [%s, %s]", raw, typ, lo, hi)
	}
	return v, nil
}

// ValidateParamValue checks raw against a declared parameter type and returns
// the value in the Go type the ABI packer expects.
func ValidateParamValue(typ, raw string) (any, error) {
	switch typ {
	case "address":
		return ValidateAddress(strings.TrimSpace(raw))
	case "string":
		return raw, nil
	case "bool":
		switch strings.TrimSpace(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a bool", raw)
	}
	v, err := ValidateInteger(raw, typ)
	if err != nil {
		return nil, err
	}
	bits, signed, _ := ParseIntType(typ)
	return abiInteger(v, bits, signed), nil
}

// abiInteger narrows v to the native Go type abi.Pack expects for widths up to 64.
func abiInteger(v *big.Int, bits int, signed bool) any {
	if signed {
		switch bits {
		case 8:
			return int8(v.Int64())
		case 16:
			return int16(v.Int64())
		case 32:
			return int32(v.Int64())
		case 64:
			return v.Int64()
		}
		return v
	}
	switch bits {
	case 8:
		return uint8(v.Uint64())
	case 16:
		return uint16(v.Uint64())
	case 32:
		return uint32(v.Uint64())
	case 64:
		return v.Uint64()
	}
	return v
}

// integerString renders an ABI-decoded integer of any width.
func integerString(v any) string {
	switch n := v.(type) {
	case *big.Int:
		return n.String()
	case int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%v", v)
}
