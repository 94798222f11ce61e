package service

import (
	"errors"
	"testing"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

type fakeCertStore struct {
	certs     []model.Certificate
	createErr error
}

func (f *fakeCertStore) Create(cert *model.Certificate) error {
	if f.createErr != nil {
		return f.createErr
	}
	cert.ID = model.GenerateUUID()
	f.certs = append(f.certs, *cert)
	return nil
}

func (f *fakeCertStore) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	for i := range f.certs {
		if f.certs[i].UserID == userID && f.certs[i].CourseID == courseID {
			c := f.certs[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertStore) FindBySerial(serial string) (*model.Certificate, error) {
	for i := range f.certs {
		if f.certs[i].SerialNumber == serial {
			c := f.certs[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertStore) ListByUser(userID uint) ([]model.Certificate, error) {
	var out []model.Certificate
	for _, c := range f.certs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeUserFinder struct {
	users map[uint]*model.User
}

func (f *fakeUserFinder) FindByID(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEnrollmentMarker struct {
	completed map[uint]uint
}

func (f *fakeEnrollmentMarker) MarkCompleted(userID, courseID uint) error {
	if f.completed == nil {
		f.completed = map[uint]uint{}
	}
	f.completed[userID] = courseID
	return nil
}

func newTestCertService(attempts *fakeAttemptStore) (*CertificateService, *fakeCertStore, *fakeEnrollmentMarker) {
	certs := &fakeCertStore{}
	instructor := &model.User{Name: "王老师"}
	instructor.ID = 9
	course := &model.Course{Title: "React 入门", InstructorID: 9, Instructor: instructor, IsPublished: true}
	course.ID = 1
	courses := &fakeCourseFinder{courses: map[uint]*model.Course{1: course}}
	student := &model.User{Name: "李同学"}
	student.ID = 7
	users := &fakeUserFinder{users: map[uint]*model.User{7: student}}
	marker := &fakeEnrollmentMarker{}
	return NewCertificateService(certs, attempts, courses, users, marker), certs, marker
}

func recordAttempt(attempts *fakeAttemptStore, userID, courseID uint, passed bool) {
	attempt := &model.QuizAttempt{UserID: userID, CourseID: courseID, Passed: passed, Score: 80, PassingScore: 70}
	if !passed {
		attempt.Score = 60
	}
	attempts.CreateAttemptWithResults(attempt, nil)
}

func TestIssue_RequiresPassedAttempt(t *testing.T) {
	attempts := newFakeAttemptStore()
	svc, certs, _ := newTestCertService(attempts)

	// 从未提交
	if _, err := svc.Issue(7, 1); !errors.Is(err, util.ErrQuizNotPassed) {
		t.Errorf("no attempts: err = %v, want ErrQuizNotPassed", err)
	}

	// 最新一次未通过
	recordAttempt(attempts, 7, 1, false)
	if _, err := svc.Issue(7, 1); !errors.Is(err, util.ErrQuizNotPassed) {
		t.Errorf("failed attempt: err = %v, want ErrQuizNotPassed", err)
	}
	if len(certs.certs) != 0 {
		t.Error("no certificate may exist before passing")
	}
}

func TestIssue_PassedAttempt(t *testing.T) {
	attempts := newFakeAttemptStore()
	svc, _, marker := newTestCertService(attempts)
	recordAttempt(attempts, 7, 1, true)

	cert, err := svc.Issue(7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert.SerialNumber == "" {
		t.Error("certificate must carry a serial number")
	}
	if cert.LearnerName != "李同学" || cert.CourseTitle != "React 入门" || cert.InstructorName != "王老师" {
		t.Errorf("certificate snapshot incomplete: %+v", cert)
	}
	if marker.completed[7] != 1 {
		t.Error("enrollment should be marked completed on issue")
	}
}

func TestIssue_Idempotent(t *testing.T) {
	attempts := newFakeAttemptStore()
	svc, certs, _ := newTestCertService(attempts)
	recordAttempt(attempts, 7, 1, true)

	first, err := svc.Issue(7, 1)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := svc.Issue(7, 1)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if first.SerialNumber != second.SerialNumber {
		t.Error("repeat issue must return the same certificate")
	}
	if len(certs.certs) != 1 {
		t.Fatalf("got %d certificates, want 1", len(certs.certs))
	}
}

func TestIssue_LatestAttemptGoverns(t *testing.T) {
	attempts := newFakeAttemptStore()
	svc, _, _ := newTestCertService(attempts)

	// 先通过，又重考砸了：当前状态以最新为准
	recordAttempt(attempts, 7, 1, true)
	recordAttempt(attempts, 7, 1, false)

	if _, err := svc.Issue(7, 1); !errors.Is(err, util.ErrQuizNotPassed) {
		t.Errorf("latest failed attempt: err = %v, want ErrQuizNotPassed", err)
	}
}

func TestIssue_CourseMissing(t *testing.T) {
	attempts := newFakeAttemptStore()
	svc, _, _ := newTestCertService(attempts)

	if _, err := svc.Issue(7, 42); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestVerifyBySerial(t *testing.T) {
	attempts := newFakeAttemptStore()
	svc, _, _ := newTestCertService(attempts)
	recordAttempt(attempts, 7, 1, true)

	cert, err := svc.Issue(7, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := svc.VerifyBySerial(cert.SerialNumber)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.LearnerName != cert.LearnerName {
		t.Errorf("verified learner = %q, want %q", got.LearnerName, cert.LearnerName)
	}

	if _, err := svc.VerifyBySerial("bogus"); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Errorf("bogus serial: err = %v, want ErrCertificateNotFound", err)
	}
}
