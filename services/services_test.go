package services

import "github.com/campusdesk/swo-feedback/logger"

func init() {
	logger.IsTest = true
}
