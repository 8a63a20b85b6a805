package models

// Коллекции документного хранилища.
const (
	CollectionRecruiters   = "recruiters"
	CollectionDevelopers   = "developers"
	CollectionJobs         = "jobs"
	CollectionIdeas        = "ideas"
	CollectionApplications = "applications"
	CollectionAccounts     = "accounts"
)

// ListingStatus статус идеи/вакансии.
type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusClosed ListingStatus = "closed"
)

// ValidListingStatuses список валидных статусов идей.
var ValidListingStatuses = map[ListingStatus]struct{}{
	ListingStatusActive: {},
	ListingStatusClosed: {},
}

// ApplicationStatus статус отклика разработчика.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ValidApplicationStatuses список валидных статусов откликов.
var ValidApplicationStatuses = map[ApplicationStatus]struct{}{
	ApplicationStatusPending:  {},
	ApplicationStatusAccepted: {},
	ApplicationStatusRejected: {},
}

// applicationTransitions — допустимые переходы статуса отклика.
// accepted и rejected терминальные.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending: {ApplicationStatusAccepted, ApplicationStatusRejected},
}

// CanTransition сообщает, разрешён ли переход статуса отклика from → to.
func CanTransition(from, to ApplicationStatus) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
