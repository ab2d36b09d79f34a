package property

import (
	"context"
	"sort"
	"time"

	"havenly/models"
	"havenly/services/availability"
	"havenly/utils"
)

func (s *DefaultPropertyService) GetCalendar(ctx context.Context, viewer *models.Actor, id string, from, to time.Time) (*models.AvailabilityCalendar, error) {
	if _, err := s.loadVisible(ctx, viewer, id); err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, utils.NewBadRequest("to must be after from")
	}
	if utils.NightsBetween(from, to) > maxBlockRangeDays {
		return nil, utils.NewBadRequest("the calendar window cannot exceed 366 days")
	}
	return s.Availability.Calendar(ctx, id, from, to)
}

func (s *DefaultPropertyService) GetQuote(ctx context.Context, viewer *models.Actor, id, checkInRaw, checkOutRaw string) (*models.PriceQuote, error) {
	p, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	checkIn, checkOut, err := availability.ParseStay(checkInRaw, checkOutRaw)
	if err != nil {
		return nil, err
	}
	quote := availability.Quote(p, checkIn, checkOut)
	return &quote, nil
}

// blockRequestDates expands the explicit dates and the inclusive range.
func blockRequestDates(req models.BlockDatesRequest) ([]time.Time, error) {
	seen := map[int64]bool{}
	var dates []time.Time
	add := func(d time.Time) {
		if !seen[d.Unix()] {
			seen[d.Unix()] = true
			dates = append(dates, d)
		}
	}

	for _, raw := range req.Dates {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return nil, utils.NewBadRequest(err.Error())
		}
		add(d)
	}
	if req.From != "" || req.To != "" {
		if req.From == "" || req.To == "" {
			return nil, utils.NewBadRequest("from and to must be given together")
		}
		from, err := utils.ParseDate(req.From)
		if err != nil {
			return nil, utils.NewBadRequest(err.Error())
		}
		to, err := utils.ParseDate(req.To)
		if err != nil {
			return nil, utils.NewBadRequest(err.Error())
		}
		if to.Before(from) {
			return nil, utils.NewBadRequest("to cannot be before from")
		}
		if utils.NightsBetween(from, to) >= maxBlockRangeDays {
			return nil, utils.NewBadRequest("a range cannot exceed 366 days")
		}
		for _, d := range utils.EnumerateNights(from, to.AddDate(0, 0, 1)) {
			add(d)
		}
	}

	if len(dates) == 0 {
		return nil, utils.NewBadRequest("provide dates or a from/to range")
	}
	if len(dates) > maxBlockRangeDays {
		return nil, utils.NewBadRequest("too many dates in one request")
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// BlockDates marks days unavailable. Days already blocked are skipped; a day
// covered by an active booking rejects the whole request.
func (s *DefaultPropertyService) BlockDates(ctx context.Context, actor models.Actor, id string, req models.BlockDatesRequest) ([]models.BlockedDate, error) {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return nil, err
	}
	dates, err := blockRequestDates(req)
	if err != nil {
		return nil, err
	}
	if dates[0].Before(utils.StartOfDay(availability.Now())) {
		return nil, utils.NewBadRequest("cannot block dates in the past")
	}

	first, last := dates[0], dates[len(dates)-1].AddDate(0, 0, 1)
	bookings, err := s.Availability.Bookings.FindOverlapping(ctx, id, first, last)
	if err != nil {
		return nil, utils.NewInternal("failed to block dates", err)
	}
	for _, d := range dates {
		for _, b := range bookings {
			if !d.Before(b.CheckIn) && d.Before(b.CheckOut) {
				return nil, utils.NewConflict("date " + utils.FormatDate(d) + " is covered by an existing booking")
			}
		}
	}

	now := time.Now().UTC()
	docs := make([]models.BlockedDate, 0, len(dates))
	for _, d := range dates {
		docs = append(docs, models.BlockedDate{
			ID:         utils.NewID(),
			PropertyID: id,
			Date:       d,
			Reason:     req.Reason,
			BlockedBy:  actor.ID,
			CreatedAt:  now,
		})
	}
	if _, err := s.Blocked.InsertMany(ctx, docs); err != nil {
		return nil, utils.NewInternal("failed to block dates", err)
	}
	blocked, err := s.Blocked.ListInRange(ctx, id, first, last)
	if err != nil {
		return nil, utils.NewInternal("failed to list blocked dates", err)
	}
	return blocked, nil
}

func (s *DefaultPropertyService) UnblockDates(ctx context.Context, actor models.Actor, id string, req models.UnblockDatesRequest) (int64, error) {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return 0, err
	}
	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return 0, utils.NewBadRequest(err.Error())
		}
		dates = append(dates, d)
	}
	removed, err := s.Blocked.DeleteDates(ctx, id, dates)
	if err != nil {
		return 0, utils.NewInternal("failed to unblock dates", err)
	}
	return removed, nil
}

func (s *DefaultPropertyService) ListBlockedDates(ctx context.Context, viewer *models.Actor, id string, from, to time.Time) ([]models.BlockedDate, error) {
	if _, err := s.loadVisible(ctx, viewer, id); err != nil {
		return nil, err
	}
	dates, err := s.Blocked.ListInRange(ctx, id, from, to)
	if err != nil {
		return nil, utils.NewInternal("failed to list blocked dates", err)
	}
	return dates, nil
}
