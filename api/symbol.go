package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	occDateLayout  = "060102"
)

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	monthPattern = regexp.MustCompile(`^\d{2}$`)
)

// OptionSymbol builds the OCC option symbol, e.g. AAPL240119C00190000.
// expiration must be YYYY-MM-DD.
func OptionSymbol(symbol, expiration string, optionType OptionType, strike float64) (string, error) {
	if strings.TrimSpace(symbol) == "" {
		return "", invalidParam("symbol", "symbol is required")
	}
	exp, err := time.Parse(dateLayout, expiration)
	if err != nil {
		return "", invalidParam("expiration", "%q is not a YYYY-MM-DD date", expiration)
	}

	var flag string
	switch optionType {
	case Call:
		flag = "C"
	case Put:
		flag = "P"
	default:
		return "", invalidParam("option_type", "%q is not call or put", optionType)
	}
	if strike <= 0 {
		return "", invalidParam("strike", "strike must be positive")
	}

	// strike in thousandths of a dollar
	milli := decimal.NewFromFloat(strike).Mul(decimal.NewFromInt(1000)).IntPart()

	return fmt.Sprintf("%s%s%s%08d", strings.ToUpper(symbol), exp.Format(occDateLayout), flag, milli), nil
}

func isDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func isDateTime(s string) bool {
	_, err := time.Parse(dateTimeLayout, s)
	return err == nil
}

func checkDate(param, value string) error {
	if value != "" && !isDate(value) {
		return invalidParam(param, "%q is not a YYYY-MM-DD date", value)
	}
	return nil
}

func checkDateTime(param, value string) error {
	if value != "" && !isDateTime(value) {
		return invalidParam(param, "%q is not a YYYY-MM-DD HH:MM datetime", value)
	}
	return nil
}

func checkOneOf(param, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalidParam(param, "%q is not one of %s", value, strings.Join(allowed, ", "))
}
