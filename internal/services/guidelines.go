package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const guidelinesCollection = "community_guidelines"
const guidelinesCacheKey = "guidelines:active"

// The active guideline document is read on every enforcement decision, so it
// is held in memory and swapped atomically on publish. The Redis layer keeps
// other instances from rereading Mongo on every request.
var guidelineCache struct {
	mu     sync.RWMutex
	active *models.GuidelineVersion
}

// ActiveGuidelines returns the single active guideline version.
func ActiveGuidelines(ctx context.Context) (*models.GuidelineVersion, error) {
	guidelineCache.mu.RLock()
	cached := guidelineCache.active
	guidelineCache.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	var gv models.GuidelineVersion
	if ok, _ := Cache.Get(ctx, guidelinesCacheKey, &gv); ok {
		storeActiveGuidelines(&gv)
		return &gv, nil
	}

	err := database.DB.Collection(guidelinesCollection).
		FindOne(ctx, bson.M{"is_active": true}).Decode(&gv)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound("active guideline version")
	}
	if err != nil {
		return nil, err
	}

	storeActiveGuidelines(&gv)
	_ = Cache.Set(ctx, guidelinesCacheKey, &gv)
	return &gv, nil
}

func storeActiveGuidelines(gv *models.GuidelineVersion) {
	guidelineCache.mu.Lock()
	guidelineCache.active = gv
	guidelineCache.mu.Unlock()
}

func invalidateGuidelineCache(ctx context.Context) {
	guidelineCache.mu.Lock()
	guidelineCache.active = nil
	guidelineCache.mu.Unlock()
	_ = Cache.Delete(ctx, guidelinesCacheKey)
}

// PublishGuidelines publishes a new guideline version and atomically
// deactivates the prior active one. Published versions are immutable; a
// duplicate version string fails with Conflict.
func PublishGuidelines(ctx context.Context, gv *models.GuidelineVersion) (*models.GuidelineVersion, error) {
	if gv.Version == "" {
		return nil, models.ErrInvalidTransition("guideline version string is required", "")
	}
	normalizeLadders(gv)

	gv.ID = primitive.NewObjectID()
	gv.IsActive = true
	gv.CreatedAt = time.Now().UTC()
	if gv.EffectiveDate.IsZero() {
		gv.EffectiveDate = gv.CreatedAt
	}

	coll := database.DB.Collection(guidelinesCollection)

	session, err := database.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		count, err := coll.CountDocuments(sc, bson.M{"version": gv.Version})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, models.ErrConflict("guideline version " + gv.Version + " already exists")
		}

		if _, err := coll.UpdateMany(sc, bson.M{"is_active": true},
			bson.M{"$set": bson.M{"is_active": false}}); err != nil {
			return nil, err
		}

		if _, err := coll.InsertOne(sc, gv); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	// Publish must be visible to all subsequent reads atomically: the old
	// cache entries die before the call returns.
	invalidateGuidelineCache(ctx)
	storeActiveGuidelines(gv)
	_ = Cache.Set(ctx, guidelinesCacheKey, gv)

	return gv, nil
}

// normalizeLadders sorts every ladder by tier and renumbers from 1 so tier
// selection can index directly.
func normalizeLadders(gv *models.GuidelineVersion) {
	for cat, ladder := range gv.Ladders {
		sort.SliceStable(ladder, func(i, j int) bool { return ladder[i].Tier < ladder[j].Tier })
		for i := range ladder {
			ladder[i].Tier = i + 1
		}
		gv.Ladders[cat] = ladder
	}
}

// LadderForViolation resolves the enforcement ladder for a violation type
// from the active guidelines. Unknown categories fall back to the
// community-standards ladder.
func LadderForViolation(ctx context.Context, vt models.ViolationType) ([]models.LadderTier, error) {
	gv, err := ActiveGuidelines(ctx)
	if err != nil {
		return nil, err
	}
	if ladder := gv.LadderFor(string(vt)); len(ladder) > 0 {
		return ladder, nil
	}
	if ladder := gv.LadderFor(string(models.ViolationCommunityStandards)); len(ladder) > 0 {
		return ladder, nil
	}
	return nil, models.ErrNotFound("enforcement ladder for category " + string(vt))
}
