package public

import (
	"errors"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var pickupCommonErrorRules = []mappedHandlerError{
	{target: service.ErrPickupNotFound, code: response.CodeNotFound, key: "error.pickup_not_found"},
	{target: service.ErrPickupStatusInvalid, code: response.CodeBadRequest, key: "error.pickup_status_invalid"},
	{target: service.ErrInvalidWeight, code: response.CodeBadRequest, key: "error.invalid_weight"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

var redemptionRedeemErrorRules = []mappedHandlerError{
	{target: service.ErrOptionNotFound, code: response.CodeNotFound, key: "error.option_not_found"},
	{target: service.ErrOptionInactive, code: response.CodeBadRequest, key: "error.option_inactive"},
	{target: service.ErrOptionOutOfStock, code: response.CodeBadRequest, key: "error.option_out_of_stock"},
	{target: service.ErrInsufficientPoints, code: response.CodeBadRequest, key: "error.insufficient_points"},
	{target: service.ErrInvalidPoints, code: response.CodeBadRequest, key: "error.invalid_points"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

var redemptionCancelErrorRules = []mappedHandlerError{
	{target: service.ErrRedemptionNotFound, code: response.CodeNotFound, key: "error.redemption_not_found"},
	{target: service.ErrRedemptionStatusInvalid, code: response.CodeBadRequest, key: "error.redemption_status_invalid"},
}

var redemptionLookupErrorRules = []mappedHandlerError{
	{target: service.ErrRedemptionNotFound, code: response.CodeNotFound, key: "error.redemption_not_found"},
}

func respondPickupError(c *gin.Context, err error) {
	respondWithMappedError(c, err, pickupCommonErrorRules, response.CodeInternal, "error.internal")
}

func respondRedemptionRedeemError(c *gin.Context, err error) {
	respondWithMappedError(c, err, redemptionRedeemErrorRules, response.CodeInternal, "error.internal")
}

func respondRedemptionCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, redemptionCancelErrorRules, response.CodeInternal, "error.internal")
}

func respondRedemptionLookupError(c *gin.Context, err error) {
	respondWithMappedError(c, err, redemptionLookupErrorRules, response.CodeInternal, "error.internal")
}
