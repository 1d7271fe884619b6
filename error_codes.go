package judokit

import "fmt"

// ErrorCategory groups error codes the same way the backend does.
type ErrorCategory int

const (
	CategoryUnknown ErrorCategory = iota
	CategoryRequest
	CategoryModel
	CategoryConfig
	CategoryProcessing
	CategoryException
)

// String returns the category name used by the Judo API, e.g. "ModelError".
func (c ErrorCategory) String() string {
	switch c {
	case CategoryRequest:
		return "RequestError"
	case CategoryModel:
		return "ModelError"
	case CategoryConfig:
		return "ConfigError"
	case CategoryProcessing:
		return "ProcessingError"
	case CategoryException:
		return "ExceptionError"
	default:
		return "Unknown"
	}
}

// ErrorCode identifies a failure. Negative codes are raised by the SDK itself;
// the rest mirror the backend's error codes.
type ErrorCode int

// Device-local codes.
const (
	CodeParamError                  ErrorCode = -1
	CodeLuhnValidation              ErrorCode = -2
	CodeJudoIDInvalid               ErrorCode = -3
	CodeCardOrTokenMissing          ErrorCode = -4
	CodeAmountMissing               ErrorCode = -5
	CodeCardAndToken                ErrorCode = -6
	CodeDuplicateTransaction        ErrorCode = -7
	CodeJailbrokenDeviceDisallowed  ErrorCode = -8
	CodeFailed3DS                   ErrorCode = -9
	CodeUserDidCancel               ErrorCode = -10
	CodeResponseParse               ErrorCode = -11
	CodeCurrencyNotSupported        ErrorCode = -12
	CodeInvalidAmount               ErrorCode = -13
	CodeDeviceIdentifierUnavailable ErrorCode = -14
	CodeThreeDSAuthRequest          ErrorCode = -15
	CodeRequestFailed               ErrorCode = -16
)

// Backend codes.
const (
	CodeGeneralError                                     ErrorCode = 0
	CodeGeneralModelError                                ErrorCode = 1
	CodeUnauthorized                                     ErrorCode = 7
	CodePaymentSystemError                               ErrorCode = 9
	CodePaymentDeclined                                  ErrorCode = 11
	CodePaymentFailed                                    ErrorCode = 12
	CodeTransactionNotFound                              ErrorCode = 19
	CodeValidationPassed                                 ErrorCode = 20
	CodeUncaughtError                                    ErrorCode = 21
	CodeServerError                                      ErrorCode = 22
	CodeInvalidFromDate                                  ErrorCode = 23
	CodeInvalidToDate                                    ErrorCode = 24
	CodeCantFindWebPayment                               ErrorCode = 25
	CodeGeneralErrorSimpleApplication                    ErrorCode = 26
	CodeInvalidAPIVersion                                ErrorCode = 40
	CodeMissingAPIVersion                                ErrorCode = 41
	CodePreAuthExpired                                   ErrorCode = 42
	CodeCollectionOriginalTransactionWrongType           ErrorCode = 43
	CodeCurrencyMustEqualOriginalTransaction             ErrorCode = 44
	CodeCannotCollectAVoidedTransaction                  ErrorCode = 45
	CodeCollectionExceedsPreAuth                         ErrorCode = 46
	CodeRefundOriginalTransactionWrongType               ErrorCode = 47
	CodeCannotRefundAVoidedTransaction                   ErrorCode = 48
	CodeRefundExceedsOriginalTransaction                 ErrorCode = 49
	CodeVoidOriginalTransactionWrongType                 ErrorCode = 50
	CodeVoidOriginalTransactionIsAlreadyVoid             ErrorCode = 51
	CodeVoidOriginalTransactionHasBeenCollected          ErrorCode = 52
	CodeVoidOriginalTransactionAmountNotEqualToPreAuth   ErrorCode = 53
	CodeUnableToAccept                                   ErrorCode = 54
	CodeAccountLocationNotFound                          ErrorCode = 55
	CodeAccessDeniedToTransaction                        ErrorCode = 56
	CodeNoConsumerForTransaction                         ErrorCode = 57
	CodeTransactionNotEnrolledInThreeDSecure             ErrorCode = 58
	CodeTransactionAlreadyAuthorizedByThreeDSecure       ErrorCode = 59
	CodeThreeDSecureNotSuccessful                        ErrorCode = 60
	CodeApUnableToDecrypt                                ErrorCode = 61
	CodeReferencedTransactionNotFound                    ErrorCode = 62
	CodeReferencedTransactionNotSuccessful               ErrorCode = 63
	CodeTestCardNotAllowed                               ErrorCode = 64
	CodeCollectionNotValid                               ErrorCode = 65
	CodeRefundOriginalTransactionNull                    ErrorCode = 66
	CodeRefundNotValid                                   ErrorCode = 67
	CodeVoidNotValid                                     ErrorCode = 68
	CodeUnknown                                          ErrorCode = 69
	CodeCardTokenInvalid                                 ErrorCode = 70
	CodeUnknownPaymentModel                              ErrorCode = 71
	CodeUnableToRouteTransaction                         ErrorCode = 72
	CodeCardTypeNotSupported                             ErrorCode = 73
	CodeCardCv2Invalid                                   ErrorCode = 74
	CodeCardTokenDoesntMatchConsumer                     ErrorCode = 75
	CodeWebPaymentReferenceInvalid                       ErrorCode = 76
	CodeWebPaymentAccountLocationNotFound                ErrorCode = 77
	CodeRegisterCardWithWrongTransactionType             ErrorCode = 78
	CodeInvalidAmountToRegisterCard                      ErrorCode = 79
	CodeContentTypeNotSpecifiedOrUnsupported             ErrorCode = 80
	CodeInternalErrorAuthenticating                      ErrorCode = 81
	CodeTransactionNotFoundForReceipt                    ErrorCode = 82
	CodeResourceNotFound                                 ErrorCode = 83
	CodeLackOfPermissionsUnauthorized                    ErrorCode = 84
	CodeContentTypeNotSupported                          ErrorCode = 85
	CodeAuthenticationFailure                            ErrorCode = 403
	CodeNotFound                                         ErrorCode = 404
	CodeMustProcessPreAuthByToken                        ErrorCode = 4002
	CodeApplicationModelIsNull                           ErrorCode = 20000
	CodeApplicationModelRequiresReference                ErrorCode = 20001
	CodeApplicationHasAlreadyGoneLive                    ErrorCode = 20002
	CodeMissingProductSelection                          ErrorCode = 20003
	CodeAccountNotInSandbox                              ErrorCode = 20004
	CodeApplicationRecIDRequired                         ErrorCode = 20005
	CodeRequestNotProperlyFormatted                      ErrorCode = 20006
	CodeNoApplicationReferenceFound                      ErrorCode = 20007
	CodeNotSupportedFileType                             ErrorCode = 20008
	CodeErrorWithFileUpload                              ErrorCode = 20009
	CodeEmptyApplicationReference                        ErrorCode = 20010
	CodeApplicationDoesNotExist                          ErrorCode = 20011
	CodeUnknownSortSpecified                             ErrorCode = 20013
	CodePageSizeLessThanOne                              ErrorCode = 20014
	CodePageSizeMoreThanFiveHundred                      ErrorCode = 20015
	CodeOffsetLessThanZero                               ErrorCode = 20016
	CodeInvalidMerchantID                                ErrorCode = 20017
	CodeMerchantIDNotFound                               ErrorCode = 20018
	CodeNoProductsWereFoundForMerchant                   ErrorCode = 20019
	CodeOnlyPartnerCanSubmitSimpleApplication            ErrorCode = 20020
	CodeMerchantIDLengthInvalid                          ErrorCode = 20021
	CodeProductSelectionMismatch                         ErrorCode = 20022
	CodeApplicationProductNotAllowed                     ErrorCode = 20023
	CodeNoApplicationsFound                              ErrorCode = 20024
	CodeApplicationNotReadyForSubmission                 ErrorCode = 20025
	CodeApplicationStatusChangeNotAllowed                ErrorCode = 20026
	CodePartnerMismatch                                  ErrorCode = 20027
	CodeRequestParametersInvalid                         ErrorCode = 20028
	CodeCompanyNameInvalidCharacters                     ErrorCode = 20029
	CodePostcodeNotPopulated                             ErrorCode = 20030
	CodeApplicationMustBeSubmittedByPartnerOrSalesperson ErrorCode = 20031
	CodeSalespersonNotFound                              ErrorCode = 20032
	CodeSalespersonNotActive                             ErrorCode = 20033
	CodeUploadFileTooLarge                               ErrorCode = 20034
	CodeDocumentTypeRequired                             ErrorCode = 20035
)

type codeEntry struct {
	name     string
	category ErrorCategory
	local    *localContent
}

// localContent is the fixed copy attached to device-local errors. Title and
// message are empty only for CodeUserDidCancel.
type localContent struct {
	title   string
	message string
	hint    string
}

const unableToProcess = "Sorry, we're currently unable to process this request."

var errorTable = map[ErrorCode]codeEntry{
	CodeParamError: {"paramError", CategoryRequest, &localContent{
		"Error", unableToProcess, "A parameter entered into the dictionary (request body to Judo API) is not set"}},
	CodeLuhnValidation: {"luhnValidationError", CategoryModel, &localContent{
		"Unable to validate", "Sorry, we've been unable to validate your card. Please check your details and try again or use an alternative card.",
		"Luhn validation checks failed"}},
	CodeJudoIDInvalid: {"judoIDInvalidError", CategoryModel, &localContent{
		"Error", unableToProcess, "The judoId must be between 6 and 10 digits after removing separators"}},
	CodeCardOrTokenMissing: {"cardOrTokenMissingError", CategoryModel, &localContent{
		"Error", unableToProcess, "Either a card, a payment token or an Apple Pay payment must be set before submitting"}},
	CodeAmountMissing: {"amountMissingError", CategoryModel, &localContent{
		"Error", unableToProcess, "An amount object must be set for all transactions except register card"}},
	CodeCardAndToken: {"cardAndTokenError", CategoryModel, &localContent{
		"Error", unableToProcess, "A card and a payment token cannot both be set on the same transaction"}},
	CodeDuplicateTransaction: {"duplicateTransactionError", CategoryProcessing, &localContent{
		"Error", "Sorry, this transaction has already been submitted.", "The payment reference has already been used by a previous submission of this transaction"}},
	CodeJailbrokenDeviceDisallowed: {"jailbrokenDeviceDisallowedError", CategoryConfig, &localContent{
		"Error", "Sorry, payments cannot be made from this device.", "The device is jailbroken and jailbroken devices are disallowed"}},
	CodeFailed3DS: {"failed3DSError", CategoryProcessing, &localContent{
		"Authentication failed", "Sorry, we were unable to authenticate your card. Please try again or use an alternative card.",
		"The 3-D Secure challenge failed or returned an unexpected payload"}},
	CodeUserDidCancel: {"userDidCancel", CategoryUnknown, &localContent{
		"", "", "Received when user cancels the payment journey"}},
	CodeResponseParse: {"responseParseError", CategoryException, &localContent{
		"Error", unableToProcess, "The response from the Judo API could not be decoded"}},
	CodeCurrencyNotSupported: {"currencyNotSupportedError", CategoryModel, &localContent{
		"Error", "Sorry, this currency is not supported.", "The currency code is not one of the currencies supported by Judo"}},
	CodeInvalidAmount: {"invalidAmountError", CategoryModel, &localContent{
		"Error", unableToProcess, "The amount must be a decimal number followed by a three letter currency code"}},
	CodeDeviceIdentifierUnavailable: {"deviceIdentifierUnavailableError", CategoryConfig, &localContent{
		"Error", unableToProcess, "A stable device identifier is required to generate a payment reference"}},
	CodeThreeDSAuthRequest: {"threeDSAuthRequest", CategoryProcessing, &localContent{
		"Authentication required", "Your card issuer needs to verify this payment.",
		"The transaction requires a 3-D Secure challenge; present the ACS page and finalise with ThreeDSecure"}},
	CodeRequestFailed: {"requestFailedError", CategoryRequest, &localContent{
		"Connection error", "Sorry, we were unable to reach the payment service. Please check your connection and try again.",
		"The HTTP request to the Judo API could not be completed"}},

	CodeGeneralError:                                     {"general_Error", CategoryRequest, nil},
	CodeGeneralModelError:                                {"general_Model_Error", CategoryModel, nil},
	CodeUnauthorized:                                     {"unauthorized", CategoryRequest, nil},
	CodePaymentSystemError:                               {"payment_System_Error", CategoryProcessing, nil},
	CodePaymentDeclined:                                  {"payment_Declined", CategoryProcessing, nil},
	CodePaymentFailed:                                    {"payment_Failed", CategoryProcessing, nil},
	CodeTransactionNotFound:                              {"transaction_Not_Found", CategoryRequest, nil},
	CodeValidationPassed:                                 {"validation_Passed", CategoryModel, nil},
	CodeUncaughtError:                                    {"uncaught_Error", CategoryException, nil},
	CodeServerError:                                      {"server_Error", CategoryException, nil},
	CodeInvalidFromDate:                                  {"invalid_From_Date", CategoryRequest, nil},
	CodeInvalidToDate:                                    {"invalid_To_Date", CategoryRequest, nil},
	CodeCantFindWebPayment:                               {"cantFindWebPayment", CategoryRequest, nil},
	CodeGeneralErrorSimpleApplication:                    {"general_Error_Simple_Application", CategoryRequest, nil},
	CodeInvalidAPIVersion:                                {"invalidApiVersion", CategoryRequest, nil},
	CodeMissingAPIVersion:                                {"missingApiVersion", CategoryRequest, nil},
	CodePreAuthExpired:                                   {"preAuthExpired", CategoryProcessing, nil},
	CodeCollectionOriginalTransactionWrongType:           {"collection_Original_Transaction_Wrong_Type", CategoryProcessing, nil},
	CodeCurrencyMustEqualOriginalTransaction:             {"currency_Must_Equal_Original_Transaction", CategoryProcessing, nil},
	CodeCannotCollectAVoidedTransaction:                  {"cannot_Collect_A_Voided_Transaction", CategoryProcessing, nil},
	CodeCollectionExceedsPreAuth:                         {"collection_Exceeds_PreAuth", CategoryProcessing, nil},
	CodeRefundOriginalTransactionWrongType:               {"refund_Original_Transaction_Wrong_Type", CategoryProcessing, nil},
	CodeCannotRefundAVoidedTransaction:                   {"cannot_Refund_A_Voided_Transaction", CategoryProcessing, nil},
	CodeRefundExceedsOriginalTransaction:                 {"refund_Exceeds_Original_Transaction", CategoryProcessing, nil},
	CodeVoidOriginalTransactionWrongType:                 {"void_Original_Transaction_Wrong_Type", CategoryProcessing, nil},
	CodeVoidOriginalTransactionIsAlreadyVoid:             {"void_Original_Transaction_Is_Already_Void", CategoryProcessing, nil},
	CodeVoidOriginalTransactionHasBeenCollected:          {"void_Original_Transaction_Has_Been_Collected", CategoryProcessing, nil},
	CodeVoidOriginalTransactionAmountNotEqualToPreAuth:   {"void_Original_Transaction_Amount_Not_Equal_To_Preauth", CategoryProcessing, nil},
	CodeUnableToAccept:                                   {"unableToAccept", CategoryProcessing, nil},
	CodeAccountLocationNotFound:                          {"accountLocationNotFound", CategoryConfig, nil},
	CodeAccessDeniedToTransaction:                        {"accessDeniedToTransaction", CategoryRequest, nil},
	CodeNoConsumerForTransaction:                         {"noConsumerForTransaction", CategoryProcessing, nil},
	CodeTransactionNotEnrolledInThreeDSecure:             {"transactionNotEnrolledInThreeDSecure", CategoryProcessing, nil},
	CodeTransactionAlreadyAuthorizedByThreeDSecure:       {"transactionAlreadyAuthorizedByThreeDSecure", CategoryProcessing, nil},
	CodeThreeDSecureNotSuccessful:                        {"threeDSecureNotSuccessful", CategoryProcessing, nil},
	CodeApUnableToDecrypt:                                {"apUnableToDecrypt", CategoryProcessing, nil},
	CodeReferencedTransactionNotFound:                    {"referencedTransactionNotFound", CategoryProcessing, nil},
	CodeReferencedTransactionNotSuccessful:               {"referencedTransactionNotSuccessful", CategoryProcessing, nil},
	CodeTestCardNotAllowed:                               {"testCardNotAllowed", CategoryConfig, nil},
	CodeCollectionNotValid:                               {"collection_Not_Valid", CategoryModel, nil},
	CodeRefundOriginalTransactionNull:                    {"refund_Original_Transaction_Null", CategoryModel, nil},
	CodeRefundNotValid:                                   {"refund_Not_Valid", CategoryModel, nil},
	CodeVoidNotValid:                                     {"void_Not_Valid", CategoryModel, nil},
	CodeUnknown:                                          {"unknown", CategoryUnknown, nil},
	CodeCardTokenInvalid:                                 {"cardTokenInvalid", CategoryModel, nil},
	CodeUnknownPaymentModel:                              {"unknownPaymentModel", CategoryModel, nil},
	CodeUnableToRouteTransaction:                         {"unableToRouteTransaction", CategoryConfig, nil},
	CodeCardTypeNotSupported:                             {"cardTypeNotSupported", CategoryConfig, nil},
	CodeCardCv2Invalid:                                   {"cardCv2Invalid", CategoryModel, nil},
	CodeCardTokenDoesntMatchConsumer:                     {"cardTokenDoesntMatchConsumer", CategoryModel, nil},
	CodeWebPaymentReferenceInvalid:                       {"webPaymentReferenceInvalid", CategoryModel, nil},
	CodeWebPaymentAccountLocationNotFound:                {"webPaymentAccountLocationNotFound", CategoryConfig, nil},
	CodeRegisterCardWithWrongTransactionType:             {"registerCardWithWrongTransactionType", CategoryModel, nil},
	CodeInvalidAmountToRegisterCard:                      {"invalidAmountToRegisterCard", CategoryModel, nil},
	CodeContentTypeNotSpecifiedOrUnsupported:             {"contentTypeNotSpecifiedOrUnsupported", CategoryRequest, nil},
	CodeInternalErrorAuthenticating:                      {"internalErrorAuthenticating", CategoryException, nil},
	CodeTransactionNotFoundForReceipt:                    {"transactionNotFound", CategoryRequest, nil},
	CodeResourceNotFound:                                 {"resourceNotFound", CategoryRequest, nil},
	CodeLackOfPermissionsUnauthorized:                    {"lackOfPermissionsUnauthorized", CategoryRequest, nil},
	CodeContentTypeNotSupported:                          {"contentTypeNotSupported", CategoryRequest, nil},
	CodeAuthenticationFailure:                            {"authenticationFailure", CategoryRequest, nil},
	CodeNotFound:                                         {"not_Found", CategoryRequest, nil},
	CodeMustProcessPreAuthByToken:                        {"mustProcessPreAuthByToken", CategoryModel, nil},
	CodeApplicationModelIsNull:                           {"applicationModelIsNull", CategoryModel, nil},
	CodeApplicationModelRequiresReference:                {"applicationModelRequiresReference", CategoryModel, nil},
	CodeApplicationHasAlreadyGoneLive:                    {"applicationHasAlreadyGoneLive", CategoryConfig, nil},
	CodeMissingProductSelection:                          {"missingProductSelection", CategoryModel, nil},
	CodeAccountNotInSandbox:                              {"accountNotInSandbox", CategoryConfig, nil},
	CodeApplicationRecIDRequired:                         {"applicationRecIdRequired", CategoryModel, nil},
	CodeRequestNotProperlyFormatted:                      {"requestNotProperlyFormatted", CategoryRequest, nil},
	CodeNoApplicationReferenceFound:                      {"noApplicationReferenceFound", CategoryRequest, nil},
	CodeNotSupportedFileType:                             {"notSupportedFileType", CategoryModel, nil},
	CodeErrorWithFileUpload:                              {"errorWithFileUpload", CategoryException, nil},
	CodeEmptyApplicationReference:                        {"emptyApplicationReference", CategoryModel, nil},
	CodeApplicationDoesNotExist:                          {"applicationDoesNotExist", CategoryRequest, nil},
	CodeUnknownSortSpecified:                             {"unknownSortSpecified", CategoryModel, nil},
	CodePageSizeLessThanOne:                              {"pageSizeLessThanOne", CategoryModel, nil},
	CodePageSizeMoreThanFiveHundred:                      {"pageSizeMoreThanFiveHundred", CategoryModel, nil},
	CodeOffsetLessThanZero:                               {"offsetLessThanZero", CategoryModel, nil},
	CodeInvalidMerchantID:                                {"invalidMerchantId", CategoryModel, nil},
	CodeMerchantIDNotFound:                               {"merchantIdNotFound", CategoryConfig, nil},
	CodeNoProductsWereFoundForMerchant:                   {"noProductsWereFoundForMerchant", CategoryConfig, nil},
	CodeOnlyPartnerCanSubmitSimpleApplication:            {"onlyJudoPartnerCanSubmitSimpleApplication", CategoryConfig, nil},
	CodeMerchantIDLengthInvalid:                          {"merchantIdLengthInvalid", CategoryModel, nil},
	CodeProductSelectionMismatch:                         {"productSelectionMismatch", CategoryModel, nil},
	CodeApplicationProductNotAllowed:                     {"applicationProductNotAllowed", CategoryConfig, nil},
	CodeNoApplicationsFound:                              {"noApplicationsFound", CategoryRequest, nil},
	CodeApplicationNotReadyForSubmission:                 {"applicationNotReadyForSubmission", CategoryModel, nil},
	CodeApplicationStatusChangeNotAllowed:                {"applicationStatusChangeNotAllowed", CategoryConfig, nil},
	CodePartnerMismatch:                                  {"partnerMismatch", CategoryConfig, nil},
	CodeRequestParametersInvalid:                         {"requestParametersInvalid", CategoryModel, nil},
	CodeCompanyNameInvalidCharacters:                     {"companyNameInvalidCharacters", CategoryModel, nil},
	CodePostcodeNotPopulated:                             {"postcodeNotPopulated", CategoryModel, nil},
	CodeApplicationMustBeSubmittedByPartnerOrSalesperson: {"applicationMustBeSubmittedByPartnerOrSalesperson", CategoryConfig, nil},
	CodeSalespersonNotFound:                              {"salespersonNotFound", CategoryConfig, nil},
	CodeSalespersonNotActive:                             {"salespersonNotActive", CategoryConfig, nil},
	CodeUploadFileTooLarge:                               {"uploadFileTooLarge", CategoryModel, nil},
	CodeDocumentTypeRequired:                             {"documentTypeRequired", CategoryModel, nil},
}

// String returns the code's name, or "errorCode(N)" for codes outside the table.
func (c ErrorCode) String() string {
	if e, ok := errorTable[c]; ok {
		return e.name
	}
	return fmt.Sprintf("errorCode(%d)", int(c))
}

// IsLocal reports whether c is raised by the SDK rather than the backend.
func (c ErrorCode) IsLocal() bool {
	e, ok := errorTable[c]
	return ok && e.local != nil
}

// Category returns the category for c. Codes missing from the table fall back
// to ranges: 20000 and above are application configuration errors, HTTP-like
// 4xx codes are request errors.
func (c ErrorCode) Category() ErrorCategory {
	if e, ok := errorTable[c]; ok {
		return e.category
	}
	return categoryForRange(c)
}

func categoryForRange(c ErrorCode) ErrorCategory {
	switch {
	case c >= 20000:
		return CategoryConfig
	case c >= 400 && c < 500:
		return CategoryRequest
	default:
		return CategoryUnknown
	}
}
