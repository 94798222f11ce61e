package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{
		CertificateService: certificateService,
	}
}

// Issue godoc
// @Summary 申请证书
// @Description 签发结课证书，门禁是最新一次测验提交已通过。幂等，重复请求返回已有证书。
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Certificate} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "测验未通过"
// @Router /api/courses/{id}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	cert, err := c.CertificateService.Issue(claims.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// Get godoc
// @Summary 查询证书
// @Description 学生查询自己在某课程的证书
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Certificate} "成功"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/courses/{id}/certificate [get]
func (c *CertificateController) Get(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	cert, err := c.CertificateService.Get(claims.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// ListMine godoc
// @Summary 我的证书
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate} "成功"
// @Router /api/my/certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.CertificateService.ListByUser(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// Verify godoc
// @Summary 证书验真
// @Description 凭证书编号公开验真，无需登录
// @Tags 证书
// @Produce  json
// @Param   serial path string true "证书编号"
// @Success 200 {object} util.Response{data=model.Certificate} "成功"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/{serial} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	cert, err := c.CertificateService.VerifyBySerial(ctx.Param("serial"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
