package repository

import (
	blockedRepo "havenly/database/repository/blocked"
	bookingRepo "havenly/database/repository/booking"
	propertyRepo "havenly/database/repository/property"
	reviewRepo "havenly/database/repository/review"
	userRepo "havenly/database/repository/user"
)

// Re-export the repository interfaces and constructors.
type UserRepository = userRepo.UserRepository

type UserSearchCriteria = userRepo.UserSearchCriteria

var NewMongoUserRepository = userRepo.NewMongoUserRepo

type PropertyRepository = propertyRepo.PropertyRepository

var NewMongoPropertyRepository = propertyRepo.NewMongoPropertyRepo

type BookingRepository = bookingRepo.BookingRepository

type BookingFilter = bookingRepo.BookingFilter

var NewMongoBookingRepository = bookingRepo.NewMongoBookingRepo

type ReviewRepository = reviewRepo.ReviewRepository

var NewMongoReviewRepository = reviewRepo.NewMongoReviewRepo

type BlockedDateRepository = blockedRepo.BlockedDateRepository

var NewMongoBlockedDateRepository = blockedRepo.NewMongoBlockedDateRepo
